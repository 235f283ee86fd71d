package llmcall

import (
	"github.com/vitea/chispa/internal/providers"
)

// Recorder turns provider results into Calls and stores them.
// A nil Recorder or one without a store drops everything.
type Recorder struct {
	store *Store
}

// NewRecorder creates a new call recorder.
func NewRecorder(store *Store) *Recorder {
	return &Recorder{store: store}
}

// RecordChat captures a text call.
func (r *Recorder) RecordChat(result *providers.ChatResult, opts RecordOptions) {
	if r == nil || r.store == nil {
		return
	}
	if call := FromChatResult(result, opts); call != nil {
		r.store.Add(*call)
	}
}

// RecordImage captures an image call.
func (r *Recorder) RecordImage(result *providers.ImageResult, opts RecordOptions) {
	if r == nil || r.store == nil {
		return
	}
	if call := FromImageResult(result, opts); call != nil {
		r.store.Add(*call)
	}
}
