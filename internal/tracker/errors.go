package tracker

// TrackerError is a custom error type for tracker errors
type TrackerError string

// Error implements the error interface
func (e TrackerError) Error() string {
	return string(e)
}

// Define errors
const (
	ErrSessionNotFound   TrackerError = "session not found"
	ErrScorecardNotFound TrackerError = "scorecard not found"
	ErrInvalidID         TrackerError = "invalid session id"
	ErrNilConfig         TrackerError = "config cannot be nil"
	ErrNilSessions       TrackerError = "session registry cannot be nil"
	ErrNilArchive        TrackerError = "scorecard archive cannot be nil"
	ErrNilRoller         TrackerError = "dice roller cannot be nil"
	ErrNilUUIDGenerator  TrackerError = "UUID generator cannot be nil"
)
