package dto

type UserItem struct {
	ID        uint64 `json:"id"`
	Username  string `json:"username"`
	Role      string `json:"role"`
	Email     string `json:"email,omitempty"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
}

// UserWithTasks lists the tasks assigned to the user.
type UserWithTasks struct {
	ID       uint64     `json:"id"`
	Username string     `json:"username"`
	Role     string     `json:"role"`
	Tasks    []TaskItem `json:"tasks"`
}
