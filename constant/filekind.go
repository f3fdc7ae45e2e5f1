package constant

// FileKind is the media kind the conferencing provider reports for a
// recording file.
type FileKind string

const (
	FileKindMP4        FileKind = "MP4"
	FileKindM4A        FileKind = "M4A"
	FileKindTimeline   FileKind = "TIMELINE"
	FileKindTranscript FileKind = "TRANSCRIPT"
	FileKindChat       FileKind = "CHAT"
	FileKindCC         FileKind = "CC"
	FileKindCSV        FileKind = "CSV"

	// FileKindNoop is a placeholder value the provider emits for files
	// that carry no media.
	FileKindNoop FileKind = ""
)

// Extension returns the file name suffix for the kind. Unknown kinds map
// to the empty string so callers can skip them without an error path.
func (k FileKind) Extension() string {
	switch k {
	case FileKindMP4:
		return "-video.mp4"
	case FileKindM4A:
		return "-audio.m4a"
	case FileKindTimeline:
		return ".json"
	case FileKindTranscript:
		return "-transcript.vtt"
	case FileKindChat:
		return "-chat.txt"
	case FileKindCC:
		return "-closed-captions.vtt"
	case FileKindCSV:
		return ".csv"
	default:
		return ""
	}
}

// MimeType returns the content type for the kind, empty for unknown kinds.
func (k FileKind) MimeType() string {
	switch k {
	case FileKindMP4:
		return "video/mp4"
	case FileKindM4A:
		return "audio/m4a"
	case FileKindTimeline:
		return "application/json"
	case FileKindTranscript:
		return "text/vtt"
	case FileKindChat:
		return "text/plain"
	case FileKindCC:
		return "text/vtt"
	case FileKindCSV:
		return "text/csv"
	default:
		return ""
	}
}
