package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/example/storefront/internal/services"
)

// ProfileHandler manages user profile endpoints.
type ProfileHandler struct {
	profiles *services.ProfileService
}

// NewProfileHandler constructs ProfileHandler.
func NewProfileHandler(profiles *services.ProfileService) *ProfileHandler {
	return &ProfileHandler{profiles: profiles}
}

// GetProfile returns authenticated user profile.
func (h *ProfileHandler) GetProfile(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	profile, err := h.profiles.GetProfile(c.UserContext(), user.ID)
	if err != nil {
		return err
	}
	return sendData(c, profileView(profile))
}

type updateProfileRequest struct {
	FirstName *string `json:"first_name" validate:"omitempty,max=150"`
	LastName  *string `json:"last_name" validate:"omitempty,max=150"`
	Email     *string `json:"email" validate:"omitempty,email,max=254"`
	Phone     *string `json:"phone" validate:"omitempty,max=150"`
}

// UpdateProfile updates user profile fields. The username cannot be changed.
func (h *ProfileHandler) UpdateProfile(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	var req updateProfileRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	profile, err := h.profiles.UpdateProfile(c.UserContext(), user.ID, services.ProfileInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
	})
	if err != nil {
		return err
	}
	return sendData(c, profileView(profile))
}

// addressRequest is the address payload shared by the profile and order
// endpoints.
type addressRequest struct {
	Street               string `json:"street" validate:"required,max=255"`
	District             string `json:"district" validate:"required,max=100"`
	Region               string `json:"region" validate:"max=100"`
	City                 string `json:"city" validate:"required,max=100"`
	PostalCode           string `json:"postal_code" validate:"required,max=20"`
	DeliveryInstructions string `json:"delivery_instructions"`
	IsDefault            bool   `json:"is_default"`
	IsDelivery           *bool  `json:"is_delivery"`
}

func (r addressRequest) input() services.AddressInput {
	return services.AddressInput{
		Street:               r.Street,
		District:             r.District,
		Region:               r.Region,
		City:                 r.City,
		PostalCode:           r.PostalCode,
		DeliveryInstructions: r.DeliveryInstructions,
		IsDefault:            r.IsDefault,
		IsDelivery:           r.IsDelivery,
	}
}

// ListAddresses returns the caller's addresses.
func (h *ProfileHandler) ListAddresses(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	addresses, err := h.profiles.ListAddresses(c.UserContext(), user.ID)
	if err != nil {
		return err
	}
	return sendData(c, addressListView(addresses))
}

// CreateAddress stores an address, or returns the identical one the caller
// already has with 200 instead of 201.
func (h *ProfileHandler) CreateAddress(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	var req addressRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	address, isNew, err := h.profiles.AddAddress(c.UserContext(), user.ID, req.input())
	if err != nil {
		return err
	}
	if isNew {
		return sendCreated(c, addressView(address))
	}
	return sendData(c, addressView(address))
}

type updateAddressRequest struct {
	Street               *string `json:"street" validate:"omitempty,max=255"`
	District             *string `json:"district" validate:"omitempty,max=100"`
	Region               *string `json:"region" validate:"omitempty,max=100"`
	City                 *string `json:"city" validate:"omitempty,max=100"`
	PostalCode           *string `json:"postal_code" validate:"omitempty,max=20"`
	DeliveryInstructions *string `json:"delivery_instructions"`
	IsDefault            *bool   `json:"is_default"`
	IsDelivery           *bool   `json:"is_delivery"`
}

// UpdateAddress edits one of the caller's addresses.
func (h *ProfileHandler) UpdateAddress(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}

	var req updateAddressRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	address, err := h.profiles.UpdateAddress(c.UserContext(), user.ID, id, services.AddressPatch{
		Street:               req.Street,
		District:             req.District,
		Region:               req.Region,
		City:                 req.City,
		PostalCode:           req.PostalCode,
		DeliveryInstructions: req.DeliveryInstructions,
		IsDefault:            req.IsDefault,
		IsDelivery:           req.IsDelivery,
	})
	if err != nil {
		return err
	}
	return sendData(c, addressView(address))
}

// DeleteAddress removes one of the caller's addresses. Orders that used it
// keep their history with no delivery address.
func (h *ProfileHandler) DeleteAddress(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}

	if err := h.profiles.DeleteAddress(c.UserContext(), user.ID, id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
