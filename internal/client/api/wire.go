package api

import "github.com/dmitrijs2005/cardsync/internal/client/models"

// Wire DTOs. Each decode goes through an explicit conversion that validates
// status strings, so a garbled body surfaces as ErrMalformedResponse instead
// of silently defaulting.

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token    string `json:"token"`
	UserID   string `json:"user_id"`
	Username string `json:"username"`
}

type wireEntry struct {
	Status    string `json:"status"`
	UpdatedAt int64  `json:"updated_at"`
}

type pushRequest struct {
	Progress map[string]wireEntry `json:"progress"`
}

type pushResponse struct {
	Accepted []string             `json:"accepted"`
	Rejected map[string]wireEntry `json:"rejected"`
}

type pullResponse struct {
	Progress map[string]wireEntry `json:"progress"`
}

type wireBreakdown struct {
	Term    string                 `json:"term"`
	Parts   []models.BreakdownPart `json:"parts"`
	Literal string                 `json:"literal"`
	Notes   string                 `json:"notes"`
	Updated int64                  `json:"updated_at"`
	By      string                 `json:"updated_by"`
}

type breakdownsResponse struct {
	Breakdowns map[string]wireBreakdown `json:"breakdowns"`
}

type saveBreakdownRequest struct {
	ID      string                 `json:"id"`
	Term    string                 `json:"term"`
	Parts   []models.BreakdownPart `json:"parts"`
	Literal string                 `json:"literal"`
	Notes   string                 `json:"notes"`
}

type adminUsersResponse struct {
	AdminUsernames []string `json:"admin_usernames"`
}

type serverConfigPayload struct {
	ManagedServerURL string                   `json:"managed_server_url"`
	SharedAPIKeys    map[string]models.APIKey `json:"shared_api_keys"`
}

type pingResponse struct {
	Status string `json:"status"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func decodeLedger(m map[string]wireEntry) (models.ProgressLedger, error) {
	out := make(models.ProgressLedger, len(m))
	for id, e := range m {
		status, err := models.ParseCardStatus(e.Status)
		if err != nil {
			return nil, err
		}
		out[id] = models.ProgressEntry{Status: status, UpdatedAt: e.UpdatedAt}
	}
	return out, nil
}

func encodeLedger(l models.ProgressLedger) map[string]wireEntry {
	out := make(map[string]wireEntry, len(l))
	for id, e := range l {
		out[id] = wireEntry{Status: string(e.Status), UpdatedAt: e.UpdatedAt}
	}
	return out
}
