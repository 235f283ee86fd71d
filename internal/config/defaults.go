package config

// defaultSettings mirrors DefaultConfig as viper keys. Durations are strings
// so the written config file stays readable.
func defaultSettings() map[string]any {
	return map[string]any{
		"server": map[string]any{
			"host":            "0.0.0.0",
			"port":            "8000",
			"allowed_origins": []string{},
		},
		"log": map[string]any{
			"level":  "info",
			"format": "text",
		},
		"reading": map[string]any{
			"min_spread":      1,
			"max_spread":      10,
			"call_timeout":    "60s",
			"retry_attempts":  1,
			"retry_delay":     "500ms",
			"max_concurrency": 0,
		},
		"providers": map[string]any{
			"openai": map[string]any{
				"type":        "openai",
				"model":       "gpt-4",
				"image_model": "dall-e-3",
				"image_size":  "1024x1024",
				"api_key":     "${OPENAI_API_KEY}",
				"timeout":     "120s",
				"max_retries": 2,
				"rate_limit":  0,
				"enabled":     true,
			},
			"mock": map[string]any{
				"type":    "mock",
				"enabled": false,
			},
		},
		"defaults": map[string]any{
			"text_provider":  "openai",
			"image_provider": "openai",
		},
		"deck": map[string]any{
			"path": "",
		},
		"tracing": map[string]any{
			"exporter": "none",
		},
		"llmcalls": map[string]any{
			"capacity": 500,
		},
	}
}

// flatten turns nested settings into dotted viper keys.
func flatten(prefix string, m map[string]any, out map[string]any) {
	for k, v := range m {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		if nested, ok := v.(map[string]any); ok {
			flatten(key, nested, out)
			continue
		}
		out[key] = v
	}
}
