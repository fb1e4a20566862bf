// Package ui is the Bubble Tea front end of arcai.
//
// Core pieces:
//   - View: a screen or modal with its own init, update and view (Elm-style)
//   - ProjectPage: the project editor; derives its phase from the session
//     and the project containers, and turns focused controls into edits
//   - OverlayStack: modals above the page with a dismiss key
//   - FocusRing: tab order across the page's controls
//   - KeyHandler: SPC leader sequences with a hint bar
//
// Long-running work (API calls, id generation) runs in tea.Cmds; results
// come back as messages and are applied on the UI goroutine.
package ui
