package domain

// ModelItem is a model option for the chat view model picker.
type ModelItem struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// ModelListItem is a row of the models grid.
type ModelListItem struct {
	Name       string `json:"name"`
	Model      string `json:"model"`
	ModifiedAt string `json:"modified_at"`
	Digest     string `json:"digest"`
	Size       string `json:"size"`
}

const (
	ConnectionStatusConnected    = "Connected"
	ConnectionStatusNotAvailable = "Not available"
)

// ConnectionInfo describes the inference server state for the status bar.
type ConnectionInfo struct {
	Status string         `json:"status"`
	Host   string         `json:"host"`
	Models []RunningModel `json:"models"`
}

// ConnectionInfoNotAvailable is reported when the server cannot be reached.
var ConnectionInfoNotAvailable = ConnectionInfo{Status: ConnectionStatusNotAvailable}

// Available reports whether running model data could be fetched.
func (c ConnectionInfo) Available() bool {
	return c.Models != nil
}
