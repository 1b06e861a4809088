package api

import (
	"time"

	"google.golang.org/protobuf/encoding/protowire"
)

type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
)

// Notice is a user-facing message attached to responses that change state.
type Notice struct {
	Severity Severity
	Message  string
}

func Info(msg string) Notice    { return Notice{Severity: SeverityInfo, Message: msg} }
func Warning(msg string) Notice { return Notice{Severity: SeverityWarning, Message: msg} }

func (m *Notice) appendWire(b []byte) []byte {
	b = appendString(b, 1, m.Severity)
	return appendString(b, 2, m.Message)
}

func (m *Notice) consumeWire(b []byte) error {
	return walk(b, func(num protowire.Number, typ protowire.Type, v []byte) (int, error) {
		switch num {
		case 1:
			return consumeString(typ, v, &m.Severity)
		case 2:
			return consumeString(typ, v, &m.Message)
		}
		return 0, nil
	})
}

type User struct {
	ID          int64
	Username    string
	Email       string
	Description string
	CreatedAt   time.Time
}

func (m *User) appendWire(b []byte) []byte {
	b = appendInt(b, 1, m.ID)
	b = appendString(b, 2, m.Username)
	b = appendString(b, 3, m.Email)
	b = appendString(b, 4, m.Description)
	return appendTime(b, 5, m.CreatedAt)
}

func (m *User) consumeWire(b []byte) error {
	return walk(b, func(num protowire.Number, typ protowire.Type, v []byte) (int, error) {
		switch num {
		case 1:
			return consumeInt(typ, v, &m.ID)
		case 2:
			return consumeString(typ, v, &m.Username)
		case 3:
			return consumeString(typ, v, &m.Email)
		case 4:
			return consumeString(typ, v, &m.Description)
		case 5:
			return consumeTime(typ, v, &m.CreatedAt)
		}
		return 0, nil
	})
}

type Place struct {
	ID          int64
	Name        string
	Description string
	Latitude    float64
	Longitude   float64
	CreatedAt   time.Time
}

func (m *Place) appendWire(b []byte) []byte {
	b = appendInt(b, 1, m.ID)
	b = appendString(b, 2, m.Name)
	b = appendString(b, 3, m.Description)
	b = appendDouble(b, 4, m.Latitude)
	b = appendDouble(b, 5, m.Longitude)
	return appendTime(b, 6, m.CreatedAt)
}

func (m *Place) consumeWire(b []byte) error {
	return walk(b, func(num protowire.Number, typ protowire.Type, v []byte) (int, error) {
		switch num {
		case 1:
			return consumeInt(typ, v, &m.ID)
		case 2:
			return consumeString(typ, v, &m.Name)
		case 3:
			return consumeString(typ, v, &m.Description)
		case 4:
			return consumeDouble(typ, v, &m.Latitude)
		case 5:
			return consumeDouble(typ, v, &m.Longitude)
		case 6:
			return consumeTime(typ, v, &m.CreatedAt)
		}
		return 0, nil
	})
}

// Visit carries an optional comment and rating; nil means absent.
type Visit struct {
	ID        int64
	UserID    int64
	PlaceID   int64
	CreatedAt time.Time
	Comment   *string
	Rating    *int
}

func (m *Visit) appendWire(b []byte) []byte {
	b = appendInt(b, 1, m.ID)
	b = appendInt(b, 2, m.UserID)
	b = appendInt(b, 3, m.PlaceID)
	b = appendTime(b, 4, m.CreatedAt)
	b = appendOptString(b, 5, m.Comment)
	return appendOptInt(b, 6, m.Rating)
}

func (m *Visit) consumeWire(b []byte) error {
	return walk(b, func(num protowire.Number, typ protowire.Type, v []byte) (int, error) {
		switch num {
		case 1:
			return consumeInt(typ, v, &m.ID)
		case 2:
			return consumeInt(typ, v, &m.UserID)
		case 3:
			return consumeInt(typ, v, &m.PlaceID)
		case 4:
			return consumeTime(typ, v, &m.CreatedAt)
		case 5:
			return consumeOptString(typ, v, &m.Comment)
		case 6:
			return consumeOptInt(typ, v, &m.Rating)
		}
		return 0, nil
	})
}

type PingRequest struct{}

func (m *PingRequest) appendWire(b []byte) []byte { return b }
func (m *PingRequest) consumeWire(b []byte) error  { return walk(b, nil) }

type PingResponse struct {
	Status string
}

func (m *PingResponse) appendWire(b []byte) []byte { return appendString(b, 1, m.Status) }

func (m *PingResponse) consumeWire(b []byte) error {
	return walk(b, func(num protowire.Number, typ protowire.Type, v []byte) (int, error) {
		if num == 1 {
			return consumeString(typ, v, &m.Status)
		}
		return 0, nil
	})
}

type RegisterRequest struct {
	Username    string
	Email       string
	Password    string
	Description string
}

func (m *RegisterRequest) appendWire(b []byte) []byte {
	b = appendString(b, 1, m.Username)
	b = appendString(b, 2, m.Email)
	b = appendString(b, 3, m.Password)
	return appendString(b, 4, m.Description)
}

func (m *RegisterRequest) consumeWire(b []byte) error {
	return walk(b, func(num protowire.Number, typ protowire.Type, v []byte) (int, error) {
		switch num {
		case 1:
			return consumeString(typ, v, &m.Username)
		case 2:
			return consumeString(typ, v, &m.Email)
		case 3:
			return consumeString(typ, v, &m.Password)
		case 4:
			return consumeString(typ, v, &m.Description)
		}
		return 0, nil
	})
}

type RegisterResponse struct {
	User    User
	Notices []Notice
}

func (m *RegisterResponse) appendWire(b []byte) []byte {
	b = appendMessage(b, 1, &m.User)
	return appendRepeated(b, 2, m.Notices)
}

func (m *RegisterResponse) consumeWire(b []byte) error {
	return walk(b, func(num protowire.Number, typ protowire.Type, v []byte) (int, error) {
		switch num {
		case 1:
			return consumeMessage(typ, v, &m.User)
		case 2:
			return consumeRepeated(typ, v, &m.Notices)
		}
		return 0, nil
	})
}

type LoginRequest struct {
	Email    string
	Password string
}

func (m *LoginRequest) appendWire(b []byte) []byte {
	b = appendString(b, 1, m.Email)
	return appendString(b, 2, m.Password)
}

func (m *LoginRequest) consumeWire(b []byte) error {
	return walk(b, func(num protowire.Number, typ protowire.Type, v []byte) (int, error) {
		switch num {
		case 1:
			return consumeString(typ, v, &m.Email)
		case 2:
			return consumeString(typ, v, &m.Password)
		}
		return 0, nil
	})
}

type LoginResponse struct {
	AccessToken string
	ExpiresAt   time.Time
	User        User
	Notices     []Notice
}

func (m *LoginResponse) appendWire(b []byte) []byte {
	b = appendString(b, 1, m.AccessToken)
	b = appendTime(b, 2, m.ExpiresAt)
	b = appendMessage(b, 3, &m.User)
	return appendRepeated(b, 4, m.Notices)
}

func (m *LoginResponse) consumeWire(b []byte) error {
	return walk(b, func(num protowire.Number, typ protowire.Type, v []byte) (int, error) {
		switch num {
		case 1:
			return consumeString(typ, v, &m.AccessToken)
		case 2:
			return consumeTime(typ, v, &m.ExpiresAt)
		case 3:
			return consumeMessage(typ, v, &m.User)
		case 4:
			return consumeRepeated(typ, v, &m.Notices)
		}
		return 0, nil
	})
}

type LogoutRequest struct{}

func (m *LogoutRequest) appendWire(b []byte) []byte { return b }
func (m *LogoutRequest) consumeWire(b []byte) error  { return walk(b, nil) }

type LogoutResponse struct {
	Notices []Notice
}

func (m *LogoutResponse) appendWire(b []byte) []byte { return appendRepeated(b, 1, m.Notices) }
func (m *LogoutResponse) consumeWire(b []byte) error  { return consumeNoticesOnly(b, &m.Notices) }

// consumeNoticesOnly decodes responses whose only field is notices = 1.
func consumeNoticesOnly(b []byte, dst *[]Notice) error {
	return walk(b, func(num protowire.Number, typ protowire.Type, v []byte) (int, error) {
		if num == 1 {
			return consumeRepeated(typ, v, dst)
		}
		return 0, nil
	})
}

type ChangePasswordRequest struct {
	OldPassword     string
	NewPassword     string
	ConfirmPassword string
}

func (m *ChangePasswordRequest) appendWire(b []byte) []byte {
	b = appendString(b, 1, m.OldPassword)
	b = appendString(b, 2, m.NewPassword)
	return appendString(b, 3, m.ConfirmPassword)
}

func (m *ChangePasswordRequest) consumeWire(b []byte) error {
	return walk(b, func(num protowire.Number, typ protowire.Type, v []byte) (int, error) {
		switch num {
		case 1:
			return consumeString(typ, v, &m.OldPassword)
		case 2:
			return consumeString(typ, v, &m.NewPassword)
		case 3:
			return consumeString(typ, v, &m.ConfirmPassword)
		}
		return 0, nil
	})
}

type ChangePasswordResponse struct {
	Notices []Notice
}

func (m *ChangePasswordResponse) appendWire(b []byte) []byte {
	return appendRepeated(b, 1, m.Notices)
}
func (m *ChangePasswordResponse) consumeWire(b []byte) error {
	return consumeNoticesOnly(b, &m.Notices)
}

type MeRequest struct{}

func (m *MeRequest) appendWire(b []byte) []byte { return b }
func (m *MeRequest) consumeWire(b []byte) error  { return walk(b, nil) }

type MeResponse struct {
	User User
}

func (m *MeResponse) appendWire(b []byte) []byte { return appendMessage(b, 1, &m.User) }

func (m *MeResponse) consumeWire(b []byte) error {
	return walk(b, func(num protowire.Number, typ protowire.Type, v []byte) (int, error) {
		if num == 1 {
			return consumeMessage(typ, v, &m.User)
		}
		return 0, nil
	})
}

type UpdateDescriptionRequest struct {
	Description string
}

func (m *UpdateDescriptionRequest) appendWire(b []byte) []byte {
	return appendString(b, 1, m.Description)
}

func (m *UpdateDescriptionRequest) consumeWire(b []byte) error {
	return walk(b, func(num protowire.Number, typ protowire.Type, v []byte) (int, error) {
		if num == 1 {
			return consumeString(typ, v, &m.Description)
		}
		return 0, nil
	})
}

type UpdateDescriptionResponse struct {
	User    User
	Notices []Notice
}

func (m *UpdateDescriptionResponse) appendWire(b []byte) []byte {
	b = appendMessage(b, 1, &m.User)
	return appendRepeated(b, 2, m.Notices)
}

func (m *UpdateDescriptionResponse) consumeWire(b []byte) error {
	return walk(b, func(num protowire.Number, typ protowire.Type, v []byte) (int, error) {
		switch num {
		case 1:
			return consumeMessage(typ, v, &m.User)
		case 2:
			return consumeRepeated(typ, v, &m.Notices)
		}
		return 0, nil
	})
}

type AddPlaceRequest struct {
	Name        string
	Description string
	Latitude    float64
	Longitude   float64
}

func (m *AddPlaceRequest) appendWire(b []byte) []byte {
	b = appendString(b, 1, m.Name)
	b = appendString(b, 2, m.Description)
	b = appendDouble(b, 3, m.Latitude)
	return appendDouble(b, 4, m.Longitude)
}

func (m *AddPlaceRequest) consumeWire(b []byte) error {
	return walk(b, func(num protowire.Number, typ protowire.Type, v []byte) (int, error) {
		switch num {
		case 1:
			return consumeString(typ, v, &m.Name)
		case 2:
			return consumeString(typ, v, &m.Description)
		case 3:
			return consumeDouble(typ, v, &m.Latitude)
		case 4:
			return consumeDouble(typ, v, &m.Longitude)
		}
		return 0, nil
	})
}

type AddPlaceResponse struct {
	Place   Place
	Notices []Notice
}

func (m *AddPlaceResponse) appendWire(b []byte) []byte {
	b = appendMessage(b, 1, &m.Place)
	return appendRepeated(b, 2, m.Notices)
}

func (m *AddPlaceResponse) consumeWire(b []byte) error {
	return walk(b, func(num protowire.Number, typ protowire.Type, v []byte) (int, error) {
		switch num {
		case 1:
			return consumeMessage(typ, v, &m.Place)
		case 2:
			return consumeRepeated(typ, v, &m.Notices)
		}
		return 0, nil
	})
}

type GetPlaceRequest struct {
	ID int64
}

func (m *GetPlaceRequest) appendWire(b []byte) []byte { return appendInt(b, 1, m.ID) }

func (m *GetPlaceRequest) consumeWire(b []byte) error {
	return walk(b, func(num protowire.Number, typ protowire.Type, v []byte) (int, error) {
		if num == 1 {
			return consumeInt(typ, v, &m.ID)
		}
		return 0, nil
	})
}

type GetPlaceResponse struct {
	Place Place
}

func (m *GetPlaceResponse) appendWire(b []byte) []byte { return appendMessage(b, 1, &m.Place) }

func (m *GetPlaceResponse) consumeWire(b []byte) error {
	return walk(b, func(num protowire.Number, typ protowire.Type, v []byte) (int, error) {
		if num == 1 {
			return consumeMessage(typ, v, &m.Place)
		}
		return 0, nil
	})
}

type ListPlacesRequest struct{}

func (m *ListPlacesRequest) appendWire(b []byte) []byte { return b }
func (m *ListPlacesRequest) consumeWire(b []byte) error  { return walk(b, nil) }

type ListPlacesResponse struct {
	Places []Place
}

func (m *ListPlacesResponse) appendWire(b []byte) []byte { return appendRepeated(b, 1, m.Places) }

func (m *ListPlacesResponse) consumeWire(b []byte) error {
	return walk(b, func(num protowire.Number, typ protowire.Type, v []byte) (int, error) {
		if num == 1 {
			return consumeRepeated(typ, v, &m.Places)
		}
		return 0, nil
	})
}

type RecordVisitRequest struct {
	PlaceID int64
	Comment *string
	Rating  *int
}

func (m *RecordVisitRequest) appendWire(b []byte) []byte {
	b = appendInt(b, 1, m.PlaceID)
	b = appendOptString(b, 2, m.Comment)
	return appendOptInt(b, 3, m.Rating)
}

func (m *RecordVisitRequest) consumeWire(b []byte) error {
	return walk(b, func(num protowire.Number, typ protowire.Type, v []byte) (int, error) {
		switch num {
		case 1:
			return consumeInt(typ, v, &m.PlaceID)
		case 2:
			return consumeOptString(typ, v, &m.Comment)
		case 3:
			return consumeOptInt(typ, v, &m.Rating)
		}
		return 0, nil
	})
}

type RecordVisitResponse struct {
	Visit          Visit
	AlreadyVisited bool
	Notices        []Notice
}

func (m *RecordVisitResponse) appendWire(b []byte) []byte {
	b = appendMessage(b, 1, &m.Visit)
	b = appendBool(b, 2, m.AlreadyVisited)
	return appendRepeated(b, 3, m.Notices)
}

func (m *RecordVisitResponse) consumeWire(b []byte) error {
	return walk(b, func(num protowire.Number, typ protowire.Type, v []byte) (int, error) {
		switch num {
		case 1:
			return consumeMessage(typ, v, &m.Visit)
		case 2:
			return consumeBool(typ, v, &m.AlreadyVisited)
		case 3:
			return consumeRepeated(typ, v, &m.Notices)
		}
		return 0, nil
	})
}

// Visit listing scopes. An empty scope means ScopeAll.
const (
	ScopeAll    = "all"
	ScopeMine   = "mine"
	ScopeUser   = "user"
	ScopePlace  = "place"
	ScopeRecent = "recent"
)

// ListVisitsRequest selects a listing by Scope. UserID applies to ScopeUser,
// PlaceID to ScopePlace and Limit to ScopeRecent.
type ListVisitsRequest struct {
	Scope   string
	UserID  int64
	PlaceID int64
	Limit   int
}

func (m *ListVisitsRequest) appendWire(b []byte) []byte {
	b = appendString(b, 1, m.Scope)
	b = appendInt(b, 2, m.UserID)
	b = appendInt(b, 3, m.PlaceID)
	return appendInt(b, 4, m.Limit)
}

func (m *ListVisitsRequest) consumeWire(b []byte) error {
	return walk(b, func(num protowire.Number, typ protowire.Type, v []byte) (int, error) {
		switch num {
		case 1:
			return consumeString(typ, v, &m.Scope)
		case 2:
			return consumeInt(typ, v, &m.UserID)
		case 3:
			return consumeInt(typ, v, &m.PlaceID)
		case 4:
			return consumeInt(typ, v, &m.Limit)
		}
		return 0, nil
	})
}

type ListVisitsResponse struct {
	Visits []Visit
}

func (m *ListVisitsResponse) appendWire(b []byte) []byte { return appendRepeated(b, 1, m.Visits) }

func (m *ListVisitsResponse) consumeWire(b []byte) error {
	return walk(b, func(num protowire.Number, typ protowire.Type, v []byte) (int, error) {
		if num == 1 {
			return consumeRepeated(typ, v, &m.Visits)
		}
		return 0, nil
	})
}

type DeleteVisitRequest struct {
	ID int64
}

func (m *DeleteVisitRequest) appendWire(b []byte) []byte { return appendInt(b, 1, m.ID) }

func (m *DeleteVisitRequest) consumeWire(b []byte) error {
	return walk(b, func(num protowire.Number, typ protowire.Type, v []byte) (int, error) {
		if num == 1 {
			return consumeInt(typ, v, &m.ID)
		}
		return 0, nil
	})
}

type DeleteVisitResponse struct {
	Notices []Notice
}

func (m *DeleteVisitResponse) appendWire(b []byte) []byte { return appendRepeated(b, 1, m.Notices) }
func (m *DeleteVisitResponse) consumeWire(b []byte) error  { return consumeNoticesOnly(b, &m.Notices) }

// UpdateVisitRequest replaces the comment and rating of visit ID. A nil
// field clears the stored value.
type UpdateVisitRequest struct {
	ID      int64
	Comment *string
	Rating  *int
}

func (m *UpdateVisitRequest) appendWire(b []byte) []byte {
	b = appendInt(b, 1, m.ID)
	b = appendOptString(b, 2, m.Comment)
	return appendOptInt(b, 3, m.Rating)
}

func (m *UpdateVisitRequest) consumeWire(b []byte) error {
	return walk(b, func(num protowire.Number, typ protowire.Type, v []byte) (int, error) {
		switch num {
		case 1:
			return consumeInt(typ, v, &m.ID)
		case 2:
			return consumeOptString(typ, v, &m.Comment)
		case 3:
			return consumeOptInt(typ, v, &m.Rating)
		}
		return 0, nil
	})
}

type UpdateVisitResponse struct {
	Visit   Visit
	Notices []Notice
}

func (m *UpdateVisitResponse) appendWire(b []byte) []byte {
	b = appendMessage(b, 1, &m.Visit)
	return appendRepeated(b, 2, m.Notices)
}

func (m *UpdateVisitResponse) consumeWire(b []byte) error {
	return walk(b, func(num protowire.Number, typ protowire.Type, v []byte) (int, error) {
		switch num {
		case 1:
			return consumeMessage(typ, v, &m.Visit)
		case 2:
			return consumeRepeated(typ, v, &m.Notices)
		}
		return 0, nil
	})
}

// HasVisitedRequest asks about UserID, or about the caller when it is zero.
type HasVisitedRequest struct {
	UserID  int64
	PlaceID int64
}

func (m *HasVisitedRequest) appendWire(b []byte) []byte {
	b = appendInt(b, 1, m.UserID)
	return appendInt(b, 2, m.PlaceID)
}

func (m *HasVisitedRequest) consumeWire(b []byte) error {
	return walk(b, func(num protowire.Number, typ protowire.Type, v []byte) (int, error) {
		switch num {
		case 1:
			return consumeInt(typ, v, &m.UserID)
		case 2:
			return consumeInt(typ, v, &m.PlaceID)
		}
		return 0, nil
	})
}

type HasVisitedResponse struct {
	Visited bool
}

func (m *HasVisitedResponse) appendWire(b []byte) []byte { return appendBool(b, 1, m.Visited) }

func (m *HasVisitedResponse) consumeWire(b []byte) error {
	return walk(b, func(num protowire.Number, typ protowire.Type, v []byte) (int, error) {
		if num == 1 {
			return consumeBool(typ, v, &m.Visited)
		}
		return 0, nil
	})
}

type PlaceStatsRequest struct {
	PlaceID int64
}

func (m *PlaceStatsRequest) appendWire(b []byte) []byte { return appendInt(b, 1, m.PlaceID) }

func (m *PlaceStatsRequest) consumeWire(b []byte) error {
	return walk(b, func(num protowire.Number, typ protowire.Type, v []byte) (int, error) {
		if num == 1 {
			return consumeInt(typ, v, &m.PlaceID)
		}
		return 0, nil
	})
}

type PlaceStatsResponse struct {
	PlaceID       int64
	VisitCount    int64
	AverageRating float64
}

func (m *PlaceStatsResponse) appendWire(b []byte) []byte {
	b = appendInt(b, 1, m.PlaceID)
	b = appendInt(b, 2, m.VisitCount)
	return appendDouble(b, 3, m.AverageRating)
}

func (m *PlaceStatsResponse) consumeWire(b []byte) error {
	return walk(b, func(num protowire.Number, typ protowire.Type, v []byte) (int, error) {
		switch num {
		case 1:
			return consumeInt(typ, v, &m.PlaceID)
		case 2:
			return consumeInt(typ, v, &m.VisitCount)
		case 3:
			return consumeDouble(typ, v, &m.AverageRating)
		}
		return 0, nil
	})
}
