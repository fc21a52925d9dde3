package types

import "time"

// EventType 推送给订阅方的事件类型
type EventType string

const (
	EventConnected         EventType = "session.connected"
	EventDisconnected      EventType = "session.disconnected"
	EventContractCreated   EventType = "contract.created"
	EventContractDeploying EventType = "contract.deploying"
	EventContractDeployed  EventType = "contract.deployed"
	EventContractCompleted EventType = "contract.completed"
	EventMilestonePaid     EventType = "contract.milestone_paid"
	EventOperationFailed   EventType = "contract.operation_failed"
)

type Event struct {
	ID         string    `json:"id"`
	Type       EventType `json:"type"`
	Identity   string    `json:"identity,omitempty"`
	ContractID string    `json:"contractId,omitempty"`
	Contract   *Contract `json:"contract,omitempty"`
	Error      string    `json:"error,omitempty"`
	At         time.Time `json:"at"`
}
