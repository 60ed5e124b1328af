package config

// Limits caps request body sizes accepted by the HTTP surfaces.
type Limits struct {
	MaxJSONBody  int64 // /api/* and /invoke/* JSON bodies
	MaxAudioBody int64 // raw audio/wav bodies sent to /invoke/play_audio_wav
}

const (
	defaultMaxJSONBody  = 50 << 20
	defaultMaxAudioBody = 100 << 20
)

// DefaultLimits returns the limits used when nothing is configured.
func DefaultLimits() Limits {
	return Limits{
		MaxJSONBody:  defaultMaxJSONBody,
		MaxAudioBody: defaultMaxAudioBody,
	}
}

func loadLimits() (Limits, error) {
	jsonBody, err := envInt64("MAX_JSON_BODY_BYTES", defaultMaxJSONBody)
	if err != nil {
		return Limits{}, err
	}
	audioBody, err := envInt64("MAX_AUDIO_BODY_BYTES", defaultMaxAudioBody)
	if err != nil {
		return Limits{}, err
	}
	return Limits{MaxJSONBody: jsonBody, MaxAudioBody: audioBody}, nil
}
