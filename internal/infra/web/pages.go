package web

import (
	"net/http"

	"github.com/go-chi/render"

	"systems-console/internal/domain"
	"systems-console/internal/domain/model"
	"systems-console/internal/usecase"
)

// messageView is a translated user-visible message.
type messageView struct {
	Key  string `json:"key"`
	Text string `json:"text"`
}

func (s *Server) messages(ms []domain.Message) []messageView {
	if len(ms) == 0 {
		return nil
	}
	out := make([]messageView, 0, len(ms))
	for _, m := range ms {
		out = append(out, messageView{Key: m.Key, Text: s.tr.T(m.Key, m.Args...)})
	}
	return out
}

type labelValue struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

type channelOption struct {
	ID       int64           `json:"id"`
	Label    string          `json:"label"`
	Name     string          `json:"name"`
	Children []channelOption `json:"children,omitempty"`
}

// channelTree nests child channels under their base channel. Children whose base is not
// in chs are dropped.
func channelTree(chs []*model.Channel) []channelOption {
	var bases []channelOption
	index := map[int64]int{}
	for _, c := range chs {
		if c.IsBase() {
			index[c.ID] = len(bases)
			bases = append(bases, channelOption{ID: c.ID, Label: c.Label, Name: c.Name})
		}
	}
	for _, c := range chs {
		if c.IsBase() {
			continue
		}
		if i, ok := index[*c.ParentID]; ok {
			bases[i].Children = append(bases[i].Children, channelOption{ID: c.ID, Label: c.Label, Name: c.Name})
		}
	}
	return bases
}

// keyFormView echoes the activation key form.
type keyFormView struct {
	Key                  string   `json:"key"`
	Description          string   `json:"description"`
	UsageLimit           string   `json:"usageLimit"`
	Universal            bool     `json:"universal"`
	SelectedEntitlements []string `json:"selectedEntitlements"`
	AutoDeploy           bool     `json:"autoDeploy"`
	ContactMethodID      string   `json:"contactMethodId"`
	SelectedBaseChannel  string   `json:"selectedBaseChannel"`
	ChildChannels        []string `json:"childChannels"`
}

// keyPage is the view model of the activation key create and edit pages.
type keyPage struct {
	Create               bool            `json:"create,omitempty"`
	TID                  int64           `json:"tid,omitempty"`
	Prefix               string          `json:"prefix"`
	BlankDescription     string          `json:"blankDescription"`
	Unprefixed           bool            `json:"unprefixed,omitempty"`
	PossibleEntitlements []labelValue    `json:"possibleEntitlements"`
	ContactMethods       []labelValue    `json:"contactMethods"`
	Channels             []channelOption `json:"channels"`
	Form                 keyFormView     `json:"form"`
	Messages             []messageView   `json:"messages,omitempty"`
	Errors               []messageView   `json:"errors,omitempty"`
}

func newKeyPage(setup *usecase.KeySetup) *keyPage {
	p := &keyPage{
		Prefix:           setup.Prefix,
		BlankDescription: setup.BlankDescription,
		Channels:         channelTree(setup.Channels),
	}
	for _, e := range setup.Entitlements {
		p.PossibleEntitlements = append(p.PossibleEntitlements, labelValue{Label: e.HumanReadableLabel, Value: e.Label})
	}
	for _, c := range setup.ContactMethods {
		p.ContactMethods = append(p.ContactMethods, labelValue{Label: c.Name, Value: formatID(c.ID)})
	}
	return p
}

// fillFromKey populates the form from a stored key.
func (p *keyPage) fillFromKey(k *model.ActivationKey) {
	unprefixed, ok := k.UnprefixedKey()
	p.TID = k.ID
	p.Unprefixed = !ok
	p.Form = keyFormView{
		Key:                  unprefixed,
		Description:          k.Note,
		Universal:            k.IsUniversalDefault(),
		SelectedEntitlements: p.offeredEntitlements(k.Entitlements),
		AutoDeploy:           k.DeployConfigs,
		ContactMethodID:      formatID(k.ContactMethod.ID),
		SelectedBaseChannel:  formatID(model.NoBaseChannelID),
		ChildChannels:        []string{},
	}
	if k.UsageLimit != nil {
		p.Form.UsageLimit = formatID(*k.UsageLimit)
	}
	if k.BaseChannel != nil {
		p.Form.SelectedBaseChannel = formatID(k.BaseChannel.ID)
	}
	for _, id := range k.ChildChannelIDs() {
		p.Form.ChildChannels = append(p.Form.ChildChannels, formatID(id))
	}
}

// offeredEntitlements keeps the labels the page still offers, so the echoed form resubmits cleanly.
func (p *keyPage) offeredEntitlements(labels []string) []string {
	out := []string{}
	for _, l := range labels {
		for _, e := range p.PossibleEntitlements {
			if e.Value == l {
				out = append(out, l)
				break
			}
		}
	}
	return out
}

func (p *keyPage) Render(w http.ResponseWriter, r *http.Request) error { return nil }

type userView struct {
	ID       int64  `json:"id"`
	Login    string `json:"login"`
	Disabled bool   `json:"disabled"`
}

// enableUserPage is the view model of the enable user confirmation and result pages.
type enableUserPage struct {
	TargetUser userView      `json:"targetUser"`
	Warnings   []messageView `json:"warnings,omitempty"`
	Messages   []messageView `json:"messages,omitempty"`
}

func (s *Server) newEnableUserPage(res *usecase.EnableResult) *enableUserPage {
	return &enableUserPage{
		TargetUser: userView{ID: res.Target.ID, Login: res.Target.Login, Disabled: res.Target.Disabled},
		Warnings:   s.messages(res.Warnings),
		Messages:   s.messages(res.Messages),
	}
}

func (p *enableUserPage) Render(w http.ResponseWriter, r *http.Request) error { return nil }

var (
	_ render.Renderer = (*keyPage)(nil)
	_ render.Renderer = (*enableUserPage)(nil)
	_ render.Renderer = (*Problem)(nil)
)
