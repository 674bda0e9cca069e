package web

import (
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"systems-console/internal/domain"
	"systems-console/internal/domain/model"
	"systems-console/internal/usecase"
)

// keyForm is the submitted activation key form.
type keyForm struct {
	Key                  string   `form:"key" validate:"omitempty,activationkey"`
	Description          string   `form:"description" validate:"max=512"`
	UsageLimit           string   `form:"usageLimit" validate:"omitempty,number,int64"`
	SelectedBaseChannel  string   `form:"selectedBaseChannel" validate:"omitempty,number|eq=-1,int64"`
	ChildChannels        []string `form:"childChannels" validate:"omitempty,dive,number,int64"`
	SelectedEntitlements []string `form:"selectedEntitlements"`
	AutoDeploy           bool     `form:"autoDeploy"`
	ContactMethodID      string   `form:"contactMethodId" validate:"required,number,int64"`
	Universal            bool     `form:"universal"`
}

// fieldMessages maps a form field to the message reported when it fails validation.
var fieldMessages = map[string]string{
	"key":                 domain.MsgKeyAllowedValues,
	"description":         domain.MsgKeyDescriptionTooLong,
	"usageLimit":          domain.MsgKeyInvalidUsageLimit,
	"selectedBaseChannel": domain.MsgKeyInvalidChannel,
	"childChannels":       domain.MsgKeyInvalidChannel,
	"contactMethodId":     domain.MsgKeyInvalidContact,
}

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("activationkey", func(fl validator.FieldLevel) bool {
		return model.IsValidKey(fl.Field().String())
	})
	// number only checks digits; ids and limits must also fit the column.
	_ = v.RegisterValidation("int64", func(fl validator.FieldLevel) bool {
		_, err := strconv.ParseInt(fl.Field().String(), 10, 64)
		return err == nil
	})
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		return fld.Tag.Get("form")
	})
	return v
}

func parseKeyForm(r *http.Request) (*keyForm, error) {
	if err := r.ParseForm(); err != nil {
		return nil, badParameter("form")
	}
	f := &keyForm{
		Key:                  strings.TrimSpace(r.PostForm.Get("key")),
		Description:          strings.TrimSpace(r.PostForm.Get("description")),
		UsageLimit:           strings.TrimSpace(r.PostForm.Get("usageLimit")),
		SelectedBaseChannel:  strings.TrimSpace(r.PostForm.Get("selectedBaseChannel")),
		SelectedEntitlements: r.PostForm["selectedEntitlements"],
		AutoDeploy:           checked(r.PostForm.Get("autoDeploy")),
		ContactMethodID:      strings.TrimSpace(r.PostForm.Get("contactMethodId")),
		Universal:            checked(r.PostForm.Get("universal")),
	}
	for _, c := range r.PostForm["childChannels"] {
		if c = strings.TrimSpace(c); c != "" {
			f.ChildChannels = append(f.ChildChannels, c)
		}
	}
	return f, nil
}

// checked reads an HTML checkbox value.
func checked(v string) bool {
	if v == "on" {
		return true
	}
	b, _ := strconv.ParseBool(v)
	return b
}

// validateKeyForm runs the struct rules and returns the failures as a *domain.ValidationError,
// or nil when the form is acceptable. Each field is reported once.
func (s *Server) validateKeyForm(f *keyForm) error {
	err := s.validate.Struct(f)
	if err == nil {
		return nil
	}
	fes, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	ve := &domain.ValidationError{}
	seen := map[string]bool{}
	for _, fe := range fes {
		name := fe.Field()
		if i := strings.IndexByte(name, '['); i >= 0 {
			name = name[:i]
		}
		key, ok := fieldMessages[name]
		if !ok || seen[name] {
			continue
		}
		seen[name] = true
		if key == domain.MsgKeyInvalidChannel {
			ve.Add(key, fe.Value())
		} else {
			ve.Add(key)
		}
	}
	if ve.Empty() {
		return err
	}
	return ve
}

// input converts a form that passed validateKeyForm, so every number parses.
func (f *keyForm) input() usecase.KeyInput {
	in := usecase.KeyInput{
		Key:           f.Key,
		Description:   f.Description,
		Entitlements:  f.SelectedEntitlements,
		OrgDefault:    f.Universal,
		DeployConfigs: f.AutoDeploy,
	}
	in.ContactMethodID, _ = strconv.ParseInt(f.ContactMethodID, 10, 64)
	if f.UsageLimit != "" {
		n, _ := strconv.ParseInt(f.UsageLimit, 10, 64)
		in.UsageLimit = &n
	}
	if f.SelectedBaseChannel != "" {
		id, _ := strconv.ParseInt(f.SelectedBaseChannel, 10, 64)
		in.BaseChannelID = &id
	}
	for _, c := range f.ChildChannels {
		id, _ := strconv.ParseInt(c, 10, 64)
		in.ChildChannelIDs = append(in.ChildChannelIDs, id)
	}
	return in
}

// view echoes the form back to the page.
func (f *keyForm) view() keyFormView {
	children := f.ChildChannels
	if children == nil {
		children = []string{}
	}
	return keyFormView{
		Key:                  f.Key,
		Description:          f.Description,
		UsageLimit:           f.UsageLimit,
		Universal:            f.Universal,
		SelectedEntitlements: f.SelectedEntitlements,
		AutoDeploy:           f.AutoDeploy,
		ContactMethodID:      f.ContactMethodID,
		SelectedBaseChannel:  f.SelectedBaseChannel,
		ChildChannels:        children,
	}
}

// idParam reads a required numeric request parameter.
func idParam(r *http.Request, name string) (int64, error) {
	v := strings.TrimSpace(r.URL.Query().Get(name))
	if v == "" {
		return 0, badParameter(name)
	}
	id, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, badParameter(name)
	}
	return id, nil
}

func formatID(id int64) string { return strconv.FormatInt(id, 10) }
