package config

import (
	"errors"
	"fmt"
	"strings"
)

func Validate(cfg Config) error {
	var errs []string

	if cfg.App.Port <= 0 || cfg.App.Port > 65535 {
		errs = append(errs, "app.port must be 1..65535")
	}
	if cfg.Fetch.RequestsPerSecond <= 0 {
		errs = append(errs, "fetch.requests_per_second must be > 0")
	}
	if cfg.Ghost.Baseline < 0 || cfg.Ghost.Baseline > 1 {
		errs = append(errs, "ghost.baseline must be in 0..1")
	}

	for i, sig := range cfg.Ghost.Signals {
		switch sig.Type {
		case "red_flag", "warning", "positive":
		default:
			errs = append(errs, fmt.Sprintf("ghost.signals[%d].type must be red_flag, warning, or positive", i))
		}
		if sig.Reason == "" {
			errs = append(errs, fmt.Sprintf("ghost.signals[%d].reason is required", i))
		}
		if len(sig.Any) == 0 {
			errs = append(errs, fmt.Sprintf("ghost.signals[%d].any must have at least 1 term", i))
		}
		for j, term := range sig.Any {
			if strings.TrimSpace(term) == "" {
				errs = append(errs, fmt.Sprintf("ghost.signals[%d].any[%d] cannot be empty", i, j))
			}
		}
	}

	if len(errs) > 0 {
		return errors.New("config validation failed:\n- " + strings.Join(errs, "\n- "))
	}
	return nil
}
