package amqp

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// AnomalyAlertMessage announces a transaction whose amount is an outlier in
// its category at the moment it was recorded.
type AnomalyAlertMessage struct {
	SessionID     string          `json:"session_id"`
	TransactionID int             `json:"transaction_id"`
	Category      string          `json:"category"`
	Amount        decimal.Decimal `json:"amount"`
	Date          string          `json:"date"`
	Description   string          `json:"description"`
	ZScore        decimal.Decimal `json:"z_score"`
	Mean          decimal.Decimal `json:"mean"`
	StdDev        decimal.Decimal `json:"std_dev"`
	Timestamp     time.Time       `json:"timestamp"`
}

// Key identifies the alert across sessions. Transaction IDs restart at 1 in
// every session, so they are only unique together with the session ID.
func (m *AnomalyAlertMessage) Key() string {
	return m.SessionID + "/" + strconv.Itoa(m.TransactionID)
}

// ToJSON converts the message to JSON bytes
func (m *AnomalyAlertMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// AnomalyAlertMessageFromJSON decodes a message published by PublishAnomalyAlert.
func AnomalyAlertMessageFromJSON(data []byte) (*AnomalyAlertMessage, error) {
	var msg AnomalyAlertMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
