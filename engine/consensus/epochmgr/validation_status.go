package epochmgr

// ValidationStatus describes the role of the node in the current epoch.
type ValidationStatus int

const (
	// NotConfiguredAsValidator is the status of a node without a validator identity.
	NotConfiguredAsValidator ValidationStatus = iota
	// NotValidatingInCurrentEpoch is the status of a validator outside the epoch's validator set.
	NotValidatingInCurrentEpoch
	ValidatingInCurrentEpoch
)

func (s ValidationStatus) String() string {
	switch s {
	case NotConfiguredAsValidator:
		return "not_configured_as_validator"
	case NotValidatingInCurrentEpoch:
		return "not_validating_in_current_epoch"
	case ValidatingInCurrentEpoch:
		return "validating_in_current_epoch"
	default:
		return "unknown"
	}
}
