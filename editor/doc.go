// Package editor provides a Bubble Tea rich-text editor component backed by
// the buffer package.
//
// The model owns a buffer, a rich span registry and a layout index kept in
// step through buffer subscriptions. It handles keys and mouse input, keeps
// the cursor in view, renders character styles and rich spans, and runs the
// optional spell checker and markdown styler in the background.
//
// Background work reaches the model as tea messages, so hosts must forward
// every message they do not handle themselves to Model.Update and return the
// command it produces.
package editor
