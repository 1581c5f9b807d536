package config

import "errors"

// ValidateForRun checks everything the server needs before it starts.
func ValidateForRun(cfg *Config) error {
	var errs []error

	if cfg.Window == nil {
		errs = append(errs, errors.New("window configuration is missing"))
	} else if err := cfg.Window.Validate(); err != nil {
		errs = append(errs, err)
	}
	if err := cfg.Redis.Validate(); err != nil {
		errs = append(errs, err)
	}
	if err := cfg.TaskQueue.Validate(); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}
