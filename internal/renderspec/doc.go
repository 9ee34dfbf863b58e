// Package renderspec builds and serialises the compositing description handed
// to the external render worker: the ordered main track with resolved trim and
// mute state, the overlay list in compositing order, and the optional global
// audio override. The document is the render contract; anything ambiguous
// here would surface as a wrong video, so Build resolves every field from a
// timeline snapshot instead of trusting stored order values.
package renderspec
