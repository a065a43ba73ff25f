package cli

import (
	"encoding/json"

	"pawnledger/internal/core/domain"
)

type result struct {
	OK    bool             `json:"ok"`
	Data  interface{}      `json:"data,omitempty"`
	Kind  domain.ErrorKind `json:"kind,omitempty"`
	Error string           `json:"error,omitempty"`
}

func (a *app) print(v result) {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

// succeed prints data and ends the command with exit code 0
func (a *app) succeed(data interface{}) error {
	a.print(result{OK: true, Data: data})
	return nil
}

// fail prints err and hands it back so the process exits with code 1.
// Informational outcomes count as failures.
func (a *app) fail(err error) error {
	appErr := domain.GetAppError(err)
	if appErr == nil {
		appErr = domain.NewInternalError(err.Error(), err)
	}
	a.print(result{OK: false, Kind: appErr.Kind, Error: appErr.Message})
	_ = a.close()
	return err
}
