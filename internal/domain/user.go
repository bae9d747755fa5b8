package domain

type Role string

const (
	RoleUser         Role = "USER"
	RoleAdmin        Role = "ADMIN"
	RoleStoreManager Role = "STORE_MANAGER"
	RoleBuyer        Role = "BUYER"
)

type User struct {
	ID                uint
	FullName          string
	Email             string
	Role              Role
	WarehouseLocation string
}

func (u User) IsBuyer() bool {
	return u.Role == RoleBuyer
}
