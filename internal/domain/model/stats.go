package model

type Stats struct {
	LikesReceived int `json:"likes"`
	Matches       int `json:"matches"`
	Views         int `json:"views"`
}
