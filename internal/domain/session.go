package domain

type (
	SessionName string
	SessionID   string
)

type Session struct {
	ID   SessionID
	Name SessionName
}
