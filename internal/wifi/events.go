package wifi

// Stage names a decision point in the bring-up state machine.
type Stage string

const (
	StageCredentials    Stage = "credentials"
	StageJoining        Stage = "joining"
	StageJoined         Stage = "joined"
	StageJoinFailed     Stage = "join_failed"
	StageSelfHosting    Stage = "self_hosting"
	StageSelfHosted     Stage = "self_hosted"
	StageSelfHostFailed Stage = "self_host_failed"
)

// Event describes one stage transition of a negotiation attempt.
type Event struct {
	AttemptID   string
	Stage       Stage
	Source      CredentialSource
	NetworkName string
	Address     string
	Err         error
}

// Observer receives stage events. It is called synchronously on the
// negotiating goroutine and must not block; the LED indicator and the
// terminal UI are typical observers.
type Observer func(Event)
