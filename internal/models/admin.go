package models

// AdminCredential est stockée hachée (argon2id)
type AdminCredential struct {
	ID           int64  `db:"id"`
	Username     string `db:"username"`
	PasswordHash string `db:"password_hash"`
}

type LoginInput struct {
	Username string `json:"username" form:"usuario" binding:"required"`
	Password string `json:"password" form:"password" binding:"required"`
}
