package results

import "github.com/joacominatel/omnidb/internal/database"

// SetEditorQueryMsg tells the app to put a query in the editor pane
type SetEditorQueryMsg struct {
	Query string
}

// StatusNotifyMsg tells the app to show a message in the status bar
type StatusNotifyMsg struct {
	Message string
}

// RequestPageMsg asks the app to load a page of a table's records.
type RequestPageMsg struct {
	Database database.Database
	Table    database.Table
	Page     int
	Filter   string
}
