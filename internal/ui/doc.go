// Package ui implements the interactive dashboard using bubbletea's Elm architecture.
//
// The dashboard moves through three views:
//  1. [ValidatingView] : waits on the session manager while a persisted token is checked
//  2. [SignedOutView] : shown when there is no usable session
//  3. [DashboardView] : file path input, upload keys and the sentiment chart
//
// The [Model] implements the standard Init/Update/View pattern, receiving asynchronous results via the [Msg] union type.
// Uploads run in a [tea.Cmd]; once the model quits, late results are dropped and the pipeline is closed.
package ui
