package game

import "github.com/san-kum/desertbus/internal/dynamo"

// Recorder samples every Every-th tick for the post-session plots.
type Recorder struct {
	Every    int
	Speed    []float64
	Lateral  []float64
	Distance []float64
}

func NewRecorder(every int) *Recorder {
	if every < 1 {
		every = 1
	}
	return &Recorder{Every: every}
}

func (r *Recorder) OnTick(tick int, s dynamo.State, _ dynamo.Intent) {
	if tick%r.Every != 0 {
		return
	}
	r.Speed = append(r.Speed, s.Speed)
	r.Lateral = append(r.Lateral, s.Lateral)
	r.Distance = append(r.Distance, s.Distance)
}
