package model

import "time"

// Role identifies which kind of account an AuthSession belongs to
type Role string

const (
	RoleSmoker Role = "smoker"
	RoleCoach  Role = "coach"
)

// User represents a smoker account
type User struct {
	ID                int64   `json:"id,omitempty"`
	Email             string  `json:"email_usuario,omitempty"`
	Password          string  `json:"password_email,omitempty"`
	Name              *string `json:"nombre_usuario,omitempty"`
	Gender            *string `json:"genero_usuario,omitempty"`
	BirthDate         *string `json:"nacimiento_usuario,omitempty"`
	CigaretteCount    *int    `json:"numerocigarro_usuario,omitempty"`
	Periodicity       *string `json:"periodicidad,omitempty"`
	SmokingTime       *string `json:"tiempo_fumando,omitempty"`
	ConsumptionTypeID *int64  `json:"id_tipo,omitempty"`
	Photo             *string `json:"foto_usuario,omitempty"`
	Token             string  `json:"token,omitempty"`
}

func (u User) GetID() int64 { return u.ID }

func (u User) WithID(id int64) User {
	u.ID = id
	return u
}

// Redacted drops credentials before the entity leaves the server
func (u User) Redacted() User {
	u.Password = ""
	return u
}

// SmokerSignup is the signup payload. Quantity and ConsumptionTypeID seed the
// first follow-up record once the account exists.
type SmokerSignup struct {
	User
	Quantity int `json:"cantidad"`
}

// CoachProfile represents a coach account and its public profile
type CoachProfile struct {
	ID          int64    `json:"id,omitempty"`
	Email       string   `json:"email_coach,omitempty"`
	Password    string   `json:"password_coach,omitempty"`
	Name        *string  `json:"nombre_coach,omitempty"`
	Gender      *string  `json:"genero_coach,omitempty"`
	Description *string  `json:"descripcion_coach,omitempty"`
	Address     *string  `json:"direccion,omitempty"`
	BirthDate   *string  `json:"nacimiento_coach,omitempty"`
	Latitude    *float64 `json:"latitud,omitempty"`
	Longitude   *float64 `json:"longitud,omitempty"`
	Price       *float64 `json:"precio_servicio,omitempty"`
	Photo       *string  `json:"foto_coach,omitempty"`
	Token       string   `json:"token,omitempty"`
}

func (c CoachProfile) GetID() int64 { return c.ID }

func (c CoachProfile) WithID(id int64) CoachProfile {
	c.ID = id
	return c
}

func (c CoachProfile) Redacted() CoachProfile {
	c.Password = ""
	return c
}

// Complete reports whether name, gender, address and birth date are all present
func (c CoachProfile) Complete() bool {
	return Present(c.Name) && Present(c.Gender) && Present(c.Address) && Present(c.BirthDate)
}

// ConsumptionType is reference data (cigarettes, vaper, cigars...)
type ConsumptionType struct {
	ID   int64  `json:"id,omitempty"`
	Name string `json:"name"`
}

func (t ConsumptionType) GetID() int64 { return t.ID }

func (t ConsumptionType) WithID(id int64) ConsumptionType {
	t.ID = id
	return t
}

// FollowUpRecord is one consumption entry of a user
type FollowUpRecord struct {
	ID                int64      `json:"id,omitempty"`
	UserID            int64      `json:"id_usuario"`
	ConsumptionTypeID *int64     `json:"id_tipo,omitempty"`
	Quantity          int        `json:"cantidad"`
	RecordedAt        *time.Time `json:"fecha,omitempty"`
}

func (f FollowUpRecord) GetID() int64 { return f.ID }

func (f FollowUpRecord) WithID(id int64) FollowUpRecord {
	f.ID = id
	return f
}

// CoachRequest is a user's request to be coached. Answered maps the wire
// field "estado"; ResponseDate stays null until the coach replies.
type CoachRequest struct {
	ID           int64   `json:"id,omitempty"`
	UserID       int64   `json:"id_usuario"`
	CoachID      int64   `json:"id_coach"`
	RequestDate  string  `json:"fecha_solicitud"`
	Answered     bool    `json:"estado"`
	ResponseDate *string `json:"fecha_respuesta"`
	Comment      string  `json:"comentarios"`
}

func (r CoachRequest) GetID() int64 { return r.ID }

func (r CoachRequest) WithID(id int64) CoachRequest {
	r.ID = id
	return r
}

// Settled reports whether the request has been answered or carries a response date
func (r CoachRequest) Settled() bool {
	return r.Answered || r.ResponseDate != nil
}

// Credentials is the smoker login payload
type Credentials struct {
	Email    string `json:"email_usuario"`
	Password string `json:"password_email"`
}

// CoachCredentials is the coach login payload
type CoachCredentials struct {
	Email    string `json:"email_coach"`
	Password string `json:"password_coach"`
}

// SmokerLogin is the response body of POST /login
type SmokerLogin struct {
	ID              int64   `json:"id"`
	Name            *string `json:"nombre_usuario"`
	CigaretteCount  *int    `json:"numerocigarro_usuario"`
	Periodicity     *string `json:"periodicidad"`
	ConsumptionType *string `json:"tipo_consumo"`
	Photo           *string `json:"foto_usuario"`
	Token           string  `json:"token"`
}

// CoachLogin is the response body of POST /login-coach
type CoachLogin struct {
	CoachID int64   `json:"coach_id"`
	Name    *string `json:"nombre_coach"`
	Gender  *string `json:"genero_coach"`
	Photo   *string `json:"foto_coach"`
	Token   string  `json:"token"`
}

// AuthSession is the authentication state derived from login/signup responses
type AuthSession struct {
	IsAuthenticated bool
	Role            Role
	UserID          int64
	CoachID         int64
	Name            string
	Gender          string
	CigaretteCount  *int
	Periodicity     string
	ConsumptionType string
	Photo           string
	Token           string
	ExpiresAt       time.Time
}

// Present reports whether an optional text field is set and non-empty
func Present(s *string) bool {
	return s != nil && *s != ""
}

// Deref returns the pointed-to string or ""
func Deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// Ptr returns a pointer to v
func Ptr[T any](v T) *T {
	return &v
}

// Fields is a partial update body keyed by wire field name. Only the listed
// fields change on the server.
type Fields map[string]any
