package domain

const (
	RoleAdmin  = "admin"
	RoleClient = "client"
)

// User es una cuenta del sistema: personal (admin) o cliente evaluado.
type User struct {
	ID           int64  `json:"id"`
	Username     string `json:"username"`
	Name         string `json:"name,omitempty"`
	Role         string `json:"role"`
	PasswordHash string `json:"-"`
}
