package model

import (
	"time"

	"github.com/Denner-Esteves/painel-approve/internal/domain/enums"
)

// ClientOwner is the tagged owner variant of a task: either a reference to a
// stored client (resolved into a name snapshot at write time) or a raw name
// typed in by the operator.
type ClientOwner struct {
	ClientID *int64 `json:"client_id,omitempty"`
	Name     string `json:"client_name"`
}

func OwnerRef(clientID int64, nameSnapshot string) ClientOwner {
	return ClientOwner{ClientID: &clientID, Name: nameSnapshot}
}

func OwnerName(name string) ClientOwner {
	return ClientOwner{Name: name}
}

func (o ClientOwner) IsRef() bool {
	return o.ClientID != nil
}

type Task struct {
	ID             int64            `json:"id"`
	Owner          ClientOwner      `json:"owner"`
	Title          string           `json:"title"`
	Description    string           `json:"description"`
	Kind           enums.MediaKind  `json:"kind"`
	Platform       string           `json:"platform"`
	AccessPassword string           `json:"-"`
	ExternalURL    string           `json:"external_url,omitempty"`
	Status         enums.TaskStatus `json:"status"`
	ApproverName   string           `json:"approver_name,omitempty"`
	Feedback       string           `json:"feedback,omitempty"`
	ScheduledDate  *time.Time       `json:"scheduled_date,omitempty"`
	CreatedAt      time.Time        `json:"created_at"`
}

// LinkOnly reports whether the task is reviewed as a single external link
// rather than through its media items.
func (t Task) LinkOnly() bool {
	return t.ExternalURL != ""
}
