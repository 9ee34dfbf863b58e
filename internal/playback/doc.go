// Package playback keeps a media-playback cursor consistent with the
// selected clip's trim window. Playback time never leaves
// [trimStart, trimEnd): overrunning the out point pauses and loops the
// cursor back to the in point. Seeking is only bounded by the clip's
// natural duration so the editor can scrub outside the window to place
// new trim points.
package playback
