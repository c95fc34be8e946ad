// Package logtail reads nrsc5 diagnostic output line by line.
//
// # Overview
//
// nrsc5 writes one diagnostic line per event. The producer consumes them
// either live from the decoder's stderr or from a recorded log when
// replaying. Three pieces cover that:
//
//  1. Lines: stream lines from any io.Reader onto a channel
//  2. Read: extract lines (all of them, or the last N) from a recorded log
//  3. Recorder: append live lines to a log for later replay
//
// # Streaming
//
// Lines runs a bufio.Scanner in its own goroutine and hands each line to
// the consumer through an unbuffered channel, so the consumer applies lines
// in order and at its own pace. Cancelling the context stops delivery; the
// scanner goroutine exits once its pending Read returns.
//
//	lines, errs := logtail.Lines(ctx, stderr)
//	for line := range lines {
//		session.HandleLine(line)
//	}
//	if err := <-errs; err != nil {
//		return err
//	}
//
// # Reading Log Files
//
// Read uses a ring buffer to extract the last maxLines from a file
// regardless of its size:
//
//   - Scans the file sequentially (one pass)
//   - Uses O(maxLines) memory, not O(file size)
//   - Returns lines in chronological order
//
// A maxLines of zero or less returns the whole file. A missing file yields
// no lines and no error.
//
// # Line Length
//
// The scanner starts with a 64KB buffer and grows up to 1MB. Longer lines
// fail the scan with bufio.ErrTooLong.
package logtail
