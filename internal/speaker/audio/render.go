package audio

// Render fills one device frame. The frame is zeroed first; when silent
// (paused or cancelled) it stays zeroed and the queue is not touched.
// Otherwise queued samples are drained into it in order. It reports an
// underflow when the queue could not fill the whole frame, which is not an
// error.
func Render(out []float32, q *Queue, silent bool) (underflow bool) {
	for i := range out {
		out[i] = 0
	}
	if silent {
		return false
	}
	return q.Fill(out) < len(out)
}
