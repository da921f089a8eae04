package crmservice

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client клиент для работы с CRM
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента CRM
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// GetClient получает профиль клиента
func (c *Client) GetClient(ctx context.Context, clientID int64) (*ClientProfile, error) {
	url := fmt.Sprintf("%s/internal/clients/%d", c.baseURL, clientID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		// Продолжаем обработку
	case http.StatusNotFound:
		return nil, ErrClientNotFound
	default:
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(body))
	}

	var profile ClientProfile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	return &profile, nil
}

// GetPets получает список питомцев клиента
func (c *Client) GetPets(ctx context.Context, clientID int64) ([]Pet, error) {
	url := fmt.Sprintf("%s/internal/clients/%d/pets", c.baseURL, clientID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		// Продолжаем обработку
	case http.StatusNotFound:
		return nil, ErrClientNotFound
	default:
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(body))
	}

	var pets []Pet
	if err := json.NewDecoder(resp.Body).Decode(&pets); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	return pets, nil
}

// VerifyPetOwnership проверяет, что все питомцы принадлежат клиенту.
// При недоступности CRM возвращает ErrServiceDegraded - бронирование
// не блокируем из-за недоступности внешнего сервиса.
func (c *Client) VerifyPetOwnership(ctx context.Context, clientID int64, petIDs []int64) error {
	pets, err := c.GetPets(ctx, clientID)
	if err != nil {
		if err == ErrClientNotFound {
			c.log.Info("Client %d not found in CRM", clientID)
			return err
		}

		// Для всех остальных ошибок (недоступность сервиса, timeout, ошибки
		// парсинга и т.д.) применяем graceful degradation
		c.log.Error("CRM unavailable, applying graceful degradation for client_id=%d: %v", clientID, err)
		return fmt.Errorf("%w: client_id=%d, error=%v", ErrServiceDegraded, clientID, err)
	}

	owned := make(map[int64]bool, len(pets))
	for _, pet := range pets {
		owned[pet.ID] = true
	}

	for _, petID := range petIDs {
		if !owned[petID] {
			return fmt.Errorf("%w: pet_id=%d, client_id=%d", ErrPetNotOwned, petID, clientID)
		}
	}

	return nil
}
