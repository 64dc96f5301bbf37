// Package imports turns a user-selected review file into an upload and keeps the latest categorical result.
//
// A [Pipeline] owns four pieces of state: the selected file, the last [models.ImportResult], a user-facing error
// message, and a busy flag. Selection validates the file locally (format, emptiness, size) before anything touches
// the network. Upload dispatches the selected file to the backend endpoint for the requested format using whatever
// token the session holds at that moment. A successful upload replaces the result wholesale; a failed one leaves
// the previous result untouched and sets the error message from the backend's detail when it has one.
package imports
