package dto

type QueueSummaryResponse struct {
	Kind     string `json:"kind"`
	Pending  int64  `json:"pending"`
	InReview int64  `json:"in_review"`
	Approved int64  `json:"approved"`
	Rejected int64  `json:"rejected"`
	Archived int64  `json:"archived"`
}

type ArchiveResponse struct {
	Id     string `json:"id"`
	Status string `json:"status"`
}

type RefreshInventoryResponse struct {
	Kinds []string `json:"kinds"`
}

// RefreshInventoryMessage rides the in-process bus from the reporting
// endpoint to the refresh worker.
type RefreshInventoryMessage struct {
	Kind string `json:"kind"`
}
