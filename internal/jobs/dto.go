package jobs

type CreateJobRequest struct {
	Company  string `json:"company" validate:"required,max=100"`
	Position string `json:"position" validate:"required,max=200"`
	Status   string `json:"status" validate:"omitempty,oneof=active inactive"`
	Salary   *int64 `json:"salary,omitempty" validate:"omitempty,gte=0"`
}

type UpdateJobRequest struct {
	Company  *string `json:"company,omitempty" validate:"omitempty,max=100"`
	Position *string `json:"position,omitempty" validate:"omitempty,max=200"`
	Status   *string `json:"status,omitempty" validate:"omitempty,oneof=active inactive"`
	Salary   *int64  `json:"salary,omitempty" validate:"omitempty,gte=0"`
}

// ListJobsRequest carries the optional filters and paging of a job listing.
// Sort entries use the JSON field name with a leading '-' for descending.
type ListJobsRequest struct {
	Company  *string
	Position *string
	Status   *string
	Sort     []string
	Page     int
	Limit    int
}
