// Package outputfilter buffers decoded characters into words and
// suppresses warm-up noise: short, all-noise-prone-letter words seen
// before the decoder has locked onto real copy are dropped silently.
package outputfilter
