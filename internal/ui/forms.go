package ui

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kcherif/maitre/internal/api"
	"github.com/kcherif/maitre/internal/media"
)

// openCreateForm opens the create dialog for the active screen. Orders and
// messages are created by customers, not here.
func (m Model) openCreateForm() (tea.Model, tea.Cmd) {
	switch m.screen {
	case ScreenCategories:
		m.form = m.categoryForm(nil)
	case ScreenMenu:
		m.form = m.menuItemForm(nil)
	case ScreenUsers:
		m.form = m.userForm(nil)
	case ScreenOffers:
		m.form = m.offerForm(nil)
	default:
		m.status.info = "nothing to create here"
	}
	return m, nil
}

// openEditForm opens the edit dialog prefilled from the selected resource.
func (m Model) openEditForm() (tea.Model, tea.Cmd) {
	id, ok := m.selectedID()
	if !ok {
		return m, nil
	}
	switch m.screen {
	case ScreenCategories:
		if c, ok := m.collections.categories.Get(id); ok {
			m.form = m.categoryForm(&c)
		}
	case ScreenMenu:
		if it, ok := m.collections.menu.Get(id); ok {
			m.form = m.menuItemForm(&it)
		}
	case ScreenUsers:
		if u, ok := m.collections.users.Get(id); ok {
			m.form = m.userForm(&u)
		}
	case ScreenOffers:
		if o, ok := m.collections.offers.Get(id); ok {
			m.form = m.offerForm(&o)
		}
	default:
		m.status.info = "nothing to edit here"
	}
	return m, nil
}

func (m Model) categoryForm(existing *api.Category) *form {
	title := "New category"
	var name, order string
	var id int64
	if existing != nil {
		title = fmt.Sprintf("Edit category #%d", existing.ID)
		name = existing.Name
		order = fmt.Sprintf("%d", existing.DisplayOrder)
		id = existing.ID
	}
	coll, client, ctx, opts := m.collections.categories, m.client, m.ctx, m.imageOpts
	submit := func(values []string) tea.Cmd {
		return func() tea.Msg {
			payload := api.CategoryPayload{Name: values[0]}
			if values[1] != "" {
				n, err := parseInt(values[1])
				if err != nil {
					return formErrMsg("display order must be a number")
				}
				payload.DisplayOrder = n
			}
			upload, err := loadUpload(values[2], opts)
			if err != nil {
				return formErrMsg(err.Error())
			}
			if id == 0 {
				_, err = coll.Create(ctx, func(ctx context.Context) (api.Category, error) {
					return client.CreateCategory(ctx, payload, upload)
				})
				return mutationDoneMsg{screen: ScreenCategories, verb: "category created", err: friendlyUploadErr(err)}
			}
			_, err = coll.Update(ctx, id, func(ctx context.Context) (api.Category, error) {
				return client.UpdateCategory(ctx, id, payload, upload)
			})
			return mutationDoneMsg{screen: ScreenCategories, verb: "category updated", err: friendlyUploadErr(err)}
		}
	}
	return newForm(title, submit,
		formFieldSpec{Label: "Name", Value: name, Required: true},
		formFieldSpec{Label: "Display order", Value: order, Placeholder: "0"},
		formFieldSpec{Label: "Image path", Placeholder: "(optional) /path/to/image"},
	)
}

func (m Model) menuItemForm(existing *api.MenuItem) *form {
	title := "New menu item"
	var name, desc, price, category, avail string
	var id int64
	if existing != nil {
		title = fmt.Sprintf("Edit menu item #%d", existing.ID)
		name = existing.Name
		desc = existing.Description
		price = formatPrice(existing.Price)
		category = fmt.Sprintf("%d", existing.CategoryID)
		avail = yesNo(existing.Available)
		id = existing.ID
	}
	coll, client, ctx, opts := m.collections.menu, m.client, m.ctx, m.imageOpts
	submit := func(values []string) tea.Cmd {
		return func() tea.Msg {
			priceVal, err := parseFloat(values[2])
			if err != nil {
				return formErrMsg("price must be a number")
			}
			categoryID, err := parseInt64(values[3])
			if err != nil {
				return formErrMsg("category id must be a number")
			}
			available, err := parseBool(values[4])
			if err != nil {
				return formErrMsg(err.Error())
			}
			payload := api.MenuItemPayload{
				Name:        values[0],
				Description: values[1],
				Price:       priceVal,
				CategoryID:  categoryID,
				Available:   available,
			}
			upload, err := loadUpload(values[5], opts)
			if err != nil {
				return formErrMsg(err.Error())
			}
			if id == 0 {
				_, err = coll.Create(ctx, func(ctx context.Context) (api.MenuItem, error) {
					return client.CreateMenuItem(ctx, payload, upload)
				})
				return mutationDoneMsg{screen: ScreenMenu, verb: "menu item created", err: friendlyUploadErr(err)}
			}
			_, err = coll.Update(ctx, id, func(ctx context.Context) (api.MenuItem, error) {
				return client.UpdateMenuItem(ctx, id, payload, upload)
			})
			return mutationDoneMsg{screen: ScreenMenu, verb: "menu item updated", err: friendlyUploadErr(err)}
		}
	}
	return newForm(title, submit,
		formFieldSpec{Label: "Name", Value: name, Required: true},
		formFieldSpec{Label: "Description", Value: desc},
		formFieldSpec{Label: "Price", Value: price, Required: true},
		formFieldSpec{Label: "Category id", Value: category, Required: true},
		formFieldSpec{Label: "Available (y/n)", Value: avail, Placeholder: "yes"},
		formFieldSpec{Label: "Image path", Placeholder: "(optional) /path/to/image"},
	)
}

func (m Model) userForm(existing *api.User) *form {
	title := "New user"
	var name, email, role string
	var id int64
	if existing != nil {
		title = fmt.Sprintf("Edit user #%d", existing.ID)
		name = existing.Name
		email = existing.Email
		role = existing.Role
		id = existing.ID
	}
	coll, client, ctx := m.collections.users, m.client, m.ctx
	submit := func(values []string) tea.Cmd {
		return func() tea.Msg {
			payload := api.UserPayload{Name: values[0], Email: values[1], Role: values[2]}
			var err error
			if id == 0 {
				_, err = coll.Create(ctx, func(ctx context.Context) (api.User, error) {
					return client.CreateUser(ctx, payload)
				})
				return mutationDoneMsg{screen: ScreenUsers, verb: "user created", err: err}
			}
			_, err = coll.Update(ctx, id, func(ctx context.Context) (api.User, error) {
				return client.UpdateUser(ctx, id, payload)
			})
			return mutationDoneMsg{screen: ScreenUsers, verb: "user updated", err: err}
		}
	}
	return newForm(title, submit,
		formFieldSpec{Label: "Name", Value: name, Required: true},
		formFieldSpec{Label: "Email", Value: email, Required: true},
		formFieldSpec{Label: "Role", Value: role, Placeholder: "staff"},
	)
}

func (m Model) offerForm(existing *api.Offer) *form {
	title := "New offer"
	var offerTitle, desc, discount, active string
	var id int64
	if existing != nil {
		title = fmt.Sprintf("Edit offer #%d", existing.ID)
		offerTitle = existing.Title
		desc = existing.Description
		discount = fmt.Sprintf("%.0f", existing.DiscountPct)
		active = yesNo(existing.Active)
		id = existing.ID
	}
	coll, client, ctx, opts := m.collections.offers, m.client, m.ctx, m.imageOpts
	submit := func(values []string) tea.Cmd {
		return func() tea.Msg {
			discountVal, err := parseFloat(values[2])
			if err != nil {
				return formErrMsg("discount must be a number")
			}
			activeVal, err := parseBool(values[3])
			if err != nil {
				return formErrMsg(err.Error())
			}
			// Offers embed their image in the JSON body as a data URI
			// rather than a multipart part.
			dataURI, err := loadDataURI(values[4], opts)
			if err != nil {
				return formErrMsg(err.Error())
			}
			payload := api.OfferPayload{
				Title:        values[0],
				Description:  values[1],
				DiscountPct:  discountVal,
				Active:       activeVal,
				ImageDataURI: dataURI,
			}
			if id == 0 {
				_, err = coll.Create(ctx, func(ctx context.Context) (api.Offer, error) {
					return client.CreateOffer(ctx, payload)
				})
				return mutationDoneMsg{screen: ScreenOffers, verb: "offer created", err: friendlyUploadErr(err)}
			}
			_, err = coll.Update(ctx, id, func(ctx context.Context) (api.Offer, error) {
				return client.UpdateOffer(ctx, id, payload)
			})
			return mutationDoneMsg{screen: ScreenOffers, verb: "offer updated", err: friendlyUploadErr(err)}
		}
	}
	return newForm(title, submit,
		formFieldSpec{Label: "Title", Value: offerTitle, Required: true},
		formFieldSpec{Label: "Description", Value: desc},
		formFieldSpec{Label: "Discount %", Value: discount, Required: true},
		formFieldSpec{Label: "Active (y/n)", Value: active, Placeholder: "yes"},
		formFieldSpec{Label: "Image path", Placeholder: "(optional) /path/to/image"},
	)
}

// loadUpload reads and processes the image at path for a multipart request.
// Pipeline failures fall back to the original file bytes; the caller still
// gets its image, just uncompressed, and an oversized original surfaces as
// the server's 413.
func loadUpload(path string, opts media.Options) (*api.Upload, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}
	if len(data) > media.MaxUploadBytes {
		return nil, &api.ValidationError{Field: "image", Reason: "file exceeds the 5 MiB limit"}
	}
	asset, err := media.Process(data, opts)
	if err != nil {
		var decodeErr *media.DecodeError
		var encodeErr *media.EncodeError
		if errors.As(err, &decodeErr) || errors.As(err, &encodeErr) {
			return &api.Upload{
				Filename: filepath.Base(path),
				MIMEType: http.DetectContentType(data),
				Bytes:    data,
			}, nil
		}
		return nil, err
	}
	return &api.Upload{
		Filename: jpegName(path),
		MIMEType: asset.MIMEType,
		Bytes:    asset.Bytes,
	}, nil
}

// loadDataURI is loadUpload's JSON-embedded twin: the result is a base64
// data URI string instead of multipart bytes.
func loadDataURI(path string, opts media.Options) (string, error) {
	if path == "" {
		return "", nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read image: %w", err)
	}
	if len(data) > media.MaxUploadBytes {
		return "", &api.ValidationError{Field: "image", Reason: "file exceeds the 5 MiB limit"}
	}
	asset, err := media.Process(data, opts)
	if err != nil {
		var decodeErr *media.DecodeError
		var encodeErr *media.EncodeError
		if errors.As(err, &decodeErr) || errors.As(err, &encodeErr) {
			mime := http.DetectContentType(data)
			return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data), nil
		}
		return "", err
	}
	return asset.DataURI, nil
}

func jpegName(path string) string {
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	if ext != "" {
		base = base[:len(base)-len(ext)]
	}
	return base + ".jpg"
}

// friendlyUploadErr rewords a 413 so the operator knows the image, not the
// form, was the problem.
func friendlyUploadErr(err error) error {
	var serverErr *api.ServerError
	if errors.As(err, &serverErr) && serverErr.Status == http.StatusRequestEntityTooLarge {
		return &api.ServerError{Status: serverErr.Status, Message: "image file too large for the server"}
	}
	return err
}
