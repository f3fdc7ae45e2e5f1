package constant

// TranscriptState is derived from the transcript fields on a recorded
// meeting, it is never stored on its own.
type TranscriptState string

const (
	TranscriptStateNone      TranscriptState = "NONE"
	TranscriptStateSubmitted TranscriptState = "SUBMITTED"
	TranscriptStateComplete  TranscriptState = "COMPLETE"
)

type Environment string

const (
	EnvironmentProduction Environment = "production"
	EnvironmentStaging    Environment = "staging"
	EnvironmentDevelop    Environment = "develop"
)

func (e Environment) String() string {
	return string(e)
}

// RecordingStatusCompleted is the only recording file status worth
// transferring, anything else is still being processed upstream.
const RecordingStatusCompleted = "completed"
