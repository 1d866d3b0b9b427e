package models

// DeepLinkStatus is the normalized status carried by a payment deep link. It
// is a UX hint only; the ledger sync is the source of truth.
type DeepLinkStatus string

const (
	DeepLinkStatusSuccess    DeepLinkStatus = "success"
	DeepLinkStatusFailed     DeepLinkStatus = "failed"
	DeepLinkStatusCancelled  DeepLinkStatus = "cancelled"
	DeepLinkStatusProcessing DeepLinkStatus = "processing"
)

// DeepLinkEvent is the transient decoded form of an inbound URL. Not persisted.
type DeepLinkEvent struct {
	RawURL        string
	Path          string
	Status        DeepLinkStatus
	PaymentID     string
	ApplicationID string
	Reason        string
}
