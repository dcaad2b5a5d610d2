package report

// Request is the engine input contract: the reference passage the reader
// was given, the transcript the recognizer produced, and the externally
// measured reading duration. Age is optional; when present it is echoed
// back on the report and never consulted by scoring.
type Request struct {
	ReferenceText  string  `json:"reference_text"`
	RecognizedText string  `json:"recognized_text"`
	ElapsedSeconds float64 `json:"elapsed_seconds"`
	Age            int     `json:"age,omitempty"`
}
