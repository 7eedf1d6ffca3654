package dto

type StatsResponse struct {
	Likes   int `json:"likes"`
	Matches int `json:"matches"`
	Views   int `json:"views"`
}

type StatusResponse struct {
	Status string `json:"status"`
}

type HealthResponse struct {
	OK bool `json:"ok"`
}
