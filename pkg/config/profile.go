package config

import (
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
	"gopkg.in/yaml.v3"

	"github.com/lintang-b-s/roadgraph/pkg/errs"
	"github.com/lintang-b-s/roadgraph/pkg/ev"
	"github.com/lintang-b-s/roadgraph/pkg/weighting"
)

const (
	HINT_U_TURN_COSTS = "u_turn_costs"
	HINT_TURN_COSTS   = "turn_costs"
	HINT_VEHICLE      = "vehicle"
	HINT_WEIGHTING    = "weighting"
)

// reservedHints. keys with a typed setter, PutHint refuses them.
var reservedHints = map[string]struct{}{
	HINT_U_TURN_COSTS: {},
	HINT_TURN_COSTS:   {},
	HINT_VEHICLE:      {},
	HINT_WEIGHTING:    {},
}

var profileNamePattern = regexp.MustCompile(`^[a-z0-9_]+$`)

var (
	validate *validator.Validate
	trans    ut.Translator
)

func init() {
	var err error
	if validate, trans, err = newValidator(); err != nil {
		panic(err)
	}
}

// newValidator. struct validator with the profilename rule and english messages.
func newValidator() (*validator.Validate, ut.Translator, error) {
	v := validator.New()
	err := v.RegisterValidation("profilename", func(fl validator.FieldLevel) bool {
		return profileNamePattern.MatchString(fl.Field().String())
	})
	if err != nil {
		return nil, nil, fmt.Errorf("register profilename validation: %w", err)
	}

	english := en.New()
	uni := ut.New(english, english)
	tr, found := uni.GetTranslator("en")
	if !found {
		return nil, nil, errors.New("english translator not found")
	}
	if err := enTranslations.RegisterDefaultTranslations(v, tr); err != nil {
		return nil, nil, fmt.Errorf("register default translations: %w", err)
	}
	err = v.RegisterTranslation("profilename", tr,
		func(ut ut.Translator) error {
			return ut.Add("profilename", "{0} must only contain lowercase letters, digits and underscores, got {1}", true)
		},
		func(ut ut.Translator, fe validator.FieldError) string {
			msg, _ := ut.T("profilename", fieldName(fe), fmt.Sprintf("%q", fe.Value()))
			return msg
		})
	if err != nil {
		return nil, nil, fmt.Errorf("register profilename translation: %w", err)
	}
	return v, tr, nil
}

func fieldName(fe validator.FieldError) string {
	if fe.Field() == "" {
		return "profile name"
	}
	return fe.Field()
}

// translateError. validator errors as one invalid-argument error with english messages.
func translateError(err error, what string) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return errs.WrapErrorf(err, errs.ErrInvalidArgument, "%s", what)
	}
	msgs := make([]string, 0, len(verrs))
	for _, e := range verrs {
		msgs = append(msgs, e.Translate(trans))
	}
	return errs.NewErrorf(errs.ErrInvalidArgument, "%s: %s", what, strings.Join(msgs, "; "))
}

// ValidateProfileName. names may only contain lowercase letters, digits and underscores.
func ValidateProfileName(name string) error {
	if err := validate.Var(name, "profilename"); err != nil {
		return translateError(err, "invalid profile name")
	}
	return nil
}

// Profile . named routing configuration: which vehicle, which weighting, plus free form hints.
type Profile struct {
	Name      string            `yaml:"name" validate:"required,profilename"`
	Vehicle   string            `yaml:"vehicle" validate:"required,profilename"`
	Weighting string            `yaml:"weighting" validate:"omitempty,oneof=speed fastest shortest"`
	TurnCosts bool              `yaml:"turn_costs"`
	Hints     map[string]string `yaml:"hints"`
}

func NewProfile(name string) (*Profile, error) {
	if err := ValidateProfileName(name); err != nil {
		return nil, err
	}
	return &Profile{
		Name:      name,
		Vehicle:   "car",
		Weighting: weighting.FASTEST,
		Hints:     make(map[string]string),
	}, nil
}

// PutHint. reserved keys must go through SetVehicle, SetWeighting or SetTurnCosts.
func (p *Profile) PutHint(key, value string) error {
	if _, ok := reservedHints[key]; ok {
		return errs.NewErrorf(errs.ErrInvalidArgument, "hint %q of profile %s has a typed setter, do not set it as a hint", key, p.Name)
	}
	if p.Hints == nil {
		p.Hints = make(map[string]string)
	}
	p.Hints[key] = value
	return nil
}

func (p *Profile) Hint(key string) (string, bool) {
	v, ok := p.Hints[key]
	return v, ok
}

func (p *Profile) SetVehicle(vehicle string) *Profile {
	p.Vehicle = vehicle
	return p
}

func (p *Profile) SetWeighting(name string) *Profile {
	p.Weighting = name
	return p
}

func (p *Profile) SetTurnCosts(turnCosts bool) *Profile {
	p.TurnCosts = turnCosts
	return p
}

// Equal. profiles are identified by name.
func (p *Profile) Equal(o *Profile) bool {
	if p == nil || o == nil {
		return p == o
	}
	return p.Name == o.Name
}

// Validate. struct rules plus the reserved hint keys.
func (p *Profile) Validate() error {
	if err := validate.Struct(p); err != nil {
		return translateError(err, fmt.Sprintf("invalid profile %q", p.Name))
	}
	for key := range p.Hints {
		if _, ok := reservedHints[key]; ok {
			return errs.NewErrorf(errs.ErrInvalidArgument, "profile %s: hint %q is reserved", p.Name, key)
		}
	}
	return nil
}

// CreateWeighting. the profile's weighting over the vehicle values registered in em.
func (p *Profile) CreateWeighting(em *ev.EncodingManager) (weighting.Weighting, error) {
	if p.TurnCosts {
		return nil, errs.NewErrorf(errs.ErrInvalidArgument, "profile %s: turn costs are not supported", p.Name)
	}
	return weighting.Create(p.Weighting, p.Vehicle, em)
}

func (p *Profile) String() string {
	return fmt.Sprintf("name=%s|vehicle=%s|weighting=%s|turn_costs=%v|hints=%v", p.Name, p.Vehicle, p.Weighting, p.TurnCosts, p.Hints)
}

type profilesFile struct {
	Profiles []*Profile `yaml:"profiles"`
}

// LoadProfiles. read a YAML document of the form
//
//	profiles:
//	  - name: car_fast
//	    vehicle: car
//	    weighting: fastest
//	    hints: {max_visited_nodes: "100000"}
//
// every profile is validated and names must be unique.
func LoadProfiles(r io.Reader) ([]*Profile, error) {
	var f profilesFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, errs.WrapErrorf(err, errs.ErrInvalidArgument, "decode profiles")
	}

	seen := make(map[string]struct{}, len(f.Profiles))
	for i, p := range f.Profiles {
		if p == nil {
			return nil, errs.NewErrorf(errs.ErrInvalidArgument, "profile %d is empty", i)
		}
		if p.Weighting == "" {
			p.Weighting = weighting.FASTEST
		}
		if p.Hints == nil {
			p.Hints = make(map[string]string)
		}
		if err := p.Validate(); err != nil {
			return nil, err
		}
		if _, dup := seen[p.Name]; dup {
			return nil, errs.NewErrorf(errs.ErrInvalidArgument, "duplicate profile name %q", p.Name)
		}
		seen[p.Name] = struct{}{}
	}
	return f.Profiles, nil
}
