package staff

type SubmitDailyActivityRequest struct {
	SubmissionDate      string  `json:"submission_date" binding:"required"`
	ActivityDescription string  `json:"activity_description" binding:"required,max=5000"`
	MaterialsUsed       *string `json:"materials_used" binding:"omitempty,max=5000"`
	IssuesChallenges    *string `json:"issues_challenges" binding:"omitempty,max=5000"`
}

type EmployeeSummary struct {
	ID       int64  `json:"id"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
}

type DepartmentSummary struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type ActivityResponse struct {
	ID          int64   `json:"id"`
	ProjectID   int64   `json:"project_id"`
	AssignedTo  *int64  `json:"assigned_to"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	StartDate   *string `json:"start_date"`
	EndDate     *string `json:"end_date"`
	Status      string  `json:"status"`
}

type ProjectResponse struct {
	ID          int64              `json:"id"`
	Name        string             `json:"name"`
	Description string             `json:"description"`
	StartDate   *string            `json:"start_date"`
	EndDate     *string            `json:"end_date"`
	Status      string             `json:"status"`
	Manager     *EmployeeSummary   `json:"manager"`
	Department  *DepartmentSummary `json:"department"`
	Activities  []ActivityResponse `json:"activities"`
}

type ProjectSummary struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Status string `json:"status"`
}

type DailyActivityResponse struct {
	ID                  int64           `json:"id"`
	ProjectID           int64           `json:"project_id"`
	Project             *ProjectSummary `json:"project,omitempty"`
	EmployeeID          int64           `json:"employee_id"`
	SubmissionDate      string          `json:"submission_date"`
	ActivityDescription string          `json:"activity_description"`
	MaterialsUsed       *string         `json:"materials_used"`
	IssuesChallenges    *string         `json:"issues_challenges"`
	Status              string          `json:"status"`
	SupervisorComments  *string         `json:"supervisor_comments"`
	CreatedAt           string          `json:"created_at"`
	UpdatedAt           string          `json:"updated_at"`
}
