package puzzle

// userSummaryQuery requests per-day logged hours of a user
const userSummaryQuery = `query userSummary($userBy: UserBy!) {
  userSummary(userBy: $userBy) {
    date
    hours
    ack
  }
}`

// GraphQLRequest is the POST body of a GraphQL call
type GraphQLRequest struct {
	Query         string      `json:"query"`
	OperationName string      `json:"operationName,omitempty"`
	Variables     interface{} `json:"variables,omitempty"`
}

// UserBy selects a user. Only the domain-less login lookup is used.
type UserBy struct {
	WithoutDomain *UserWithoutDomain `json:"withoutDomain,omitempty"`
}

// UserWithoutDomain identifies a user by login without the domain part
type UserWithoutDomain struct {
	Login string `json:"login"`
}

type userSummaryVariables struct {
	UserBy UserBy `json:"userBy"`
}

// SummaryDay is one element of userSummary
type SummaryDay struct {
	Date  string
	Hours float64
	Ack   bool
}
