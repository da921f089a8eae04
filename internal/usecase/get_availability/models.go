package get_availability

import "time"

// Request модель запроса доступной вместимости площадки
type Request struct {
	LocationID int64
	StartTime  time.Time
	EndTime    time.Time
}

// Response модель ответа с сегментами свободной вместимости.
// Сегменты покрывают весь запрошенный интервал без разрывов.
type Response struct {
	LocationID int64
	StartTime  time.Time
	EndTime    time.Time
	Capacity   int
	Segments   []Segment
}

// Segment отрезок времени с постоянной занятостью площадки
type Segment struct {
	StartTime time.Time
	EndTime   time.Time
	Occupied  int
	Free      int
}
