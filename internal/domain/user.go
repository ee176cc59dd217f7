package domain

// FriendshipStatus определяет состояние направленной записи о дружбе.
type FriendshipStatus string

const (
	StatusUnconfirmed FriendshipStatus = "unconfirmed" // заявка отправлена, но не подтверждена
	StatusConfirmed   FriendshipStatus = "confirmed"   // дружба взаимная
)

// User представляет модель пользователя.
type User struct {
	ID       int64  `json:"id" db:"user_id"`
	Email    string `json:"email" db:"email"`
	Login    string `json:"login" db:"login"`
	Name     string `json:"name" db:"name"` // если пустое - подставляется login
	Birthday Date   `json:"birthday" db:"birthday"`
}

// Friendship - направленное ребро requester -> addressee со статусом.
// Пара встречных неподтвержденных заявок схлопывается в две подтвержденные.
type Friendship struct {
	RequesterID int64            `json:"requesterId" db:"requester_id"`
	AddresseeID int64            `json:"addresseeId" db:"addressee_id"`
	Status      FriendshipStatus `json:"status" db:"status"`
}

// CreateUserRequest определяет тело запроса для создания пользователя.
type CreateUserRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Login    string `json:"login" validate:"required,nospace"`
	Name     string `json:"name"`
	Birthday Date   `json:"birthday" validate:"required"`
}

// UpdateUserRequest определяет тело запроса для обновления пользователя.
// Как и в остальном API, PUT принимает объект целиком вместе с id.
type UpdateUserRequest struct {
	ID       int64  `json:"id" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Login    string `json:"login" validate:"required,nospace"`
	Name     string `json:"name"`
	Birthday Date   `json:"birthday" validate:"required"`
}
