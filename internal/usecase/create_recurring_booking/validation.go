package create_recurring_booking

import (
	"fmt"

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
		return fmt.Errorf("%w: at most %d pets per booking", ErrInvalidInput, domain.MaxPetsPerBooking)
	}

	if len(req.Weekdays) == 0 {
		return fmt.Errorf("%w: at least one weekday is required", ErrInvalidInput)
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

	return nil
}
