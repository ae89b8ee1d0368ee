package pipeline

// Stage selects which part of the pipeline a run executes.
type Stage int

const (
	StageAll Stage = iota
	StageDownload
	StageTranscribe
	StageNotes
)

func (s Stage) String() string {
	switch s {
	case StageDownload:
		return "download"
	case StageTranscribe:
		return "transcribe"
	case StageNotes:
		return "notes"
	default:
		return "all"
	}
}

// Includes reports whether a run of s executes step.
func (s Stage) Includes(step Stage) bool {
	return s == StageAll || s == step
}
