package dto

// GenerateRequest is the payload for submitting a generation.
type GenerateRequest struct {
	Title            string `json:"title,omitempty"`
	Tags             string `json:"tags,omitempty"`
	Prompt           string `json:"prompt"`
	MakeInstrumental bool   `json:"make_instrumental"`
	MV               string `json:"mv,omitempty"`
}

// GenerateResponse echoes the clips created for a request.
type GenerateResponse struct {
	ID    string `json:"id"`
	Clips []Clip `json:"clips"`
}

// WAVFile is the conversion-result payload.
type WAVFile struct {
	AudioWavURL string `json:"audio_wav_url"`
}
