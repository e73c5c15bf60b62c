package resolutions

import "time"

//go:generate mockgen -destination=mock/mock_time_provider.go -package=mockresolutions -source=time_provider.go

// TimeProvider supplies the current time
type TimeProvider interface {
	Now() time.Time
}

type systemTime struct{}

func (systemTime) Now() time.Time {
	return time.Now().UTC()
}

// SystemTime returns a provider backed by the wall clock
func SystemTime() TimeProvider {
	return systemTime{}
}
