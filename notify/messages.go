package notify

import (
	"encoding/json"
	"time"

	"bookkeeping/service"
)

// ChangeMessage 账本变更广播，只携带变更的记录ID，接收方自行重新加载
type ChangeMessage struct {
	Origin    string             `json:"origin"`
	Kind      service.ChangeKind `json:"kind"`
	ID        string             `json:"id"`
	Timestamp time.Time          `json:"timestamp"`
}

// NewChangeMessage 创建变更消息
func NewChangeMessage(origin string, kind service.ChangeKind, id string) *ChangeMessage {
	return &ChangeMessage{
		Origin:    origin,
		Kind:      kind,
		ID:        id,
		Timestamp: time.Now(),
	}
}

// ToJSON 序列化消息
func (m *ChangeMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ChangeMessageFromJSON 反序列化消息
func ChangeMessageFromJSON(data []byte) (*ChangeMessage, error) {
	var msg ChangeMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
