package api

import "time"

// User captures the investor identity returned by the auth endpoints.
type User struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Company is the tenant the investor belongs to.
type Company struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Currency string `json:"currency,omitempty"`
}

// LoginRequest is the credential payload for primary login.
type LoginRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	CompanyID int64  `json:"company_id,omitempty"`
}

// LoginData is returned by both primary and biometric login.
type LoginData struct {
	Token   string  `json:"token"`
	User    User    `json:"user"`
	Company Company `json:"company"`
}

// ChangePasswordRequest carries the old and new credentials.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// Profile is the editable investor profile.
type Profile struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone,omitempty"`
	Address   string `json:"address,omitempty"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

// ProfileUpdate carries the fields the investor may change. Empty fields
// are omitted and left untouched server-side.
type ProfileUpdate struct {
	Name    string `json:"name,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
}

// Club is an investment club summary.
type Club struct {
	ID           int64      `json:"id"`
	Name         string     `json:"name"`
	Type         string     `json:"type"`
	Description  string     `json:"description,omitempty"`
	Currency     string     `json:"currency,omitempty"`
	TargetAmount float64    `json:"target_amount,omitempty"`
	RaisedAmount float64    `json:"raised_amount,omitempty"`
	MemberCount  int        `json:"member_count,omitempty"`
	StartsAt     *time.Time `json:"starts_at,omitempty"`
	EndsAt       *time.Time `json:"ends_at,omitempty"`
}

// Transaction is a single ledger entry against the investor's account.
type Transaction struct {
	ID        int64     `json:"id"`
	ClubID    int64     `json:"club_id,omitempty"`
	ClubName  string    `json:"club_name,omitempty"`
	Type      string    `json:"type"`
	Amount    float64   `json:"amount"`
	Currency  string    `json:"currency,omitempty"`
	Status    string    `json:"status,omitempty"`
	Reference string    `json:"reference,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// TransactionPage is a server-paginated slice of transactions.
type TransactionPage struct {
	Items       []Transaction `json:"data"`
	CurrentPage int           `json:"current_page"`
	PerPage     int           `json:"per_page"`
	Total       int           `json:"total"`
	LastPage    int           `json:"last_page"`
}

// Notification is an in-app message for the investor.
type Notification struct {
	ID        int64      `json:"id"`
	Title     string     `json:"title"`
	Body      string     `json:"body,omitempty"`
	ReadAt    *time.Time `json:"read_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// Read reports whether the notification has been read.
func (n Notification) Read() bool {
	return n.ReadAt != nil
}

// NotificationPage is a server-paginated slice of notifications.
type NotificationPage struct {
	Items       []Notification `json:"data"`
	CurrentPage int            `json:"current_page"`
	PerPage     int            `json:"per_page"`
	Total       int            `json:"total"`
	LastPage    int            `json:"last_page"`
}

// UnreadCount is the badge count for the notification bell.
type UnreadCount struct {
	Count int `json:"count"`
}

// Dashboard aggregates the investor's position for the home screen.
type Dashboard struct {
	TotalInvested      float64       `json:"total_invested"`
	TotalReturns       float64       `json:"total_returns"`
	ActiveClubs        int           `json:"active_clubs"`
	Currency           string        `json:"currency,omitempty"`
	RecentTransactions []Transaction `json:"recent_transactions,omitempty"`
}

// Report is the investor's portfolio statement.
type Report struct {
	PortfolioValue   float64   `json:"portfolio_value"`
	TotalDeposits    float64   `json:"total_deposits"`
	TotalWithdrawals float64   `json:"total_withdrawals"`
	NetGain          float64   `json:"net_gain"`
	GeneratedAt      time.Time `json:"generated_at"`
}

// BiometricEnableRequest registers this device for biometric login.
type BiometricEnableRequest struct {
	Email      string `json:"email"`
	CompanyID  int64  `json:"company_id,omitempty"`
	DeviceID   string `json:"device_id"`
	DeviceName string `json:"device_name"`
	DeviceType string `json:"device_type"`
}

// BiometricEnableData carries the long-lived token the server issued for
// this device.
type BiometricEnableData struct {
	BiometricToken string `json:"biometric_token"`
}

// BiometricLoginRequest exchanges a biometric token for a session token.
type BiometricLoginRequest struct {
	Email          string `json:"email"`
	CompanyID      int64  `json:"company_id,omitempty"`
	DeviceID       string `json:"device_id"`
	BiometricToken string `json:"biometric_token"`
}

// BiometricStatusData is the server-side enablement flag for an
// account/device pair.
type BiometricStatusData struct {
	Enabled bool `json:"enabled"`
}
