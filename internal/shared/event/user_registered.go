package event

// UserRegisteredDestination is the topic/subject a new account is announced on.
const UserRegisteredDestination string = "account.user_registered"

// UserRegisteredMessage is published once a registration is persisted. The
// activation key lets a mailer build the activation link.
type UserRegisteredMessage struct {
	UserID        int64  `json:"user_id"`
	Login         string `json:"login"`
	Email         string `json:"email"`
	LangKey       string `json:"lang_key"`
	ActivationKey string `json:"activation_key"`
}
