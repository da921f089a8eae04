package create_booking

import (
	"fmt"
	"time"

	"github.com/m04kA/DDC-BookingService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.ClientID <= 0 {
		return fmt.Errorf("%w: clientID must be positive", ErrInvalidInput)
	}

	if req.LocationID <= 0 {
		return fmt.Errorf("%w: locationID must be positive", ErrInvalidInput)
	}

	if len(req.PetIDs) == 0 {
		return fmt.Errorf("%w: at least one pet is required", ErrInvalidInput)
	}

	if len(req.PetIDs) > domain.MaxPetsPerBooking {
		return fmt.Errorf("%w: at most %d pets per booking", ErrTooManyPets, domain.MaxPetsPerBooking)
	}

	seen := make(map[int64]bool, len(req.PetIDs))
	for _, petID := range req.PetIDs {
		if petID <= 0 {
			return fmt.Errorf("%w: petID must be positive", ErrInvalidInput)
		}
		if seen[petID] {
			return fmt.Errorf("%w: duplicate petID %d", ErrInvalidInput, petID)
		}
		seen[petID] = true
	}

	for _, extra := range req.Extras {
		if extra.Description == "" || extra.Quantity <= 0 || extra.UnitPrice < 0 {
			return fmt.Errorf("%w: invalid extra charge", ErrInvalidInput)
		}
	}

	if req.Redemption != nil && (req.Redemption.PackageID <= 0 || req.Redemption.Credits <= 0) {
		return fmt.Errorf("%w: invalid redemption", ErrInvalidInput)
	}

	return nil
}

// validateInterval проверяет интервал бронирования
func validateInterval(interval domain.Interval, now time.Time, openHour, closeHour int) error {
	if !interval.IsValid() {
		return ErrInvalidInterval
	}

	if interval.Start.Before(now) {
		return ErrIntervalInPast
	}

	return validateOperatingHours(interval, openHour, closeHour)
}

// validateOperatingHours проверяет операционные часы площадки.
// Проверяются только однодневные интервалы: многодневный пансион
// по определению захватывает ночь.
func validateOperatingHours(interval domain.Interval, openHour, closeHour int) error {
	if !isSameDay(interval.Start, interval.End) {
		return nil
	}

	if interval.Start.Hour() < openHour {
		return fmt.Errorf("%w: before opening at %02d:00", ErrOutsideOperatingHours, openHour)
	}

	endHour := interval.End.Hour()
	if interval.End.Minute() > 0 || interval.End.Second() > 0 {
		endHour++
	}
	if endHour > closeHour {
		return fmt.Errorf("%w: after closing at %02d:00", ErrOutsideOperatingHours, closeHour)
	}

	return nil
}

// isSameDay проверяет, что две даты относятся к одному и тому же дню
func isSameDay(date1, date2 time.Time) bool {
	y1, m1, d1 := date1.Date()
	y2, m2, d2 := date2.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}
