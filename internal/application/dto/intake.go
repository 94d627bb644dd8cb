package dto

// MessageEvent is one inbound text message that can be replied to.
type MessageEvent struct {
	ReplyToken string
	UserID     string
	Text       string
}

// IntakeSummary reports the outcome of one intake invocation.
type IntakeSummary struct {
	Received int `json:"received"`
	Created  int `json:"created"`
	Unparsed int `json:"unparsed"`
	Commands int `json:"commands"`
	Failed   int `json:"failed"`
}
