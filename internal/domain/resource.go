package domain

import (
	"time"

	"gorm.io/datatypes"
)

// Resource is the shared identity of every work produced in a laboratory.
// Exactly one variant pointer is set and it must agree with Type. Each
// variant lives in its own table keyed by the resource id, and removing the
// resource row cascades to the variant row.
type Resource struct {
	ID          int64        `json:"id" gorm:"primaryKey"`
	Title       string       `json:"title" gorm:"not null" validate:"required"`
	Description *string      `json:"description,omitempty"`
	Link        string       `json:"link" gorm:"not null" validate:"required"`
	Type        ResourceType `json:"type" gorm:"type:varchar(32);not null;index;check:chk_resource_type,type IN ('presentation','report','publication','software_repository','dataset')" validate:"required,oneof=presentation report publication software_repository dataset"`

	Presentation       *Presentation       `json:"presentation,omitempty" gorm:"foreignKey:ID;references:ID;constraint:OnDelete:CASCADE"`
	Report             *Report             `json:"report,omitempty" gorm:"foreignKey:ID;references:ID;constraint:OnDelete:CASCADE"`
	Publication        *Publication        `json:"publication,omitempty" gorm:"foreignKey:ID;references:ID;constraint:OnDelete:CASCADE"`
	SoftwareRepository *SoftwareRepository `json:"software_repository,omitempty" gorm:"foreignKey:ID;references:ID;constraint:OnDelete:CASCADE"`
	Dataset            *Dataset            `json:"dataset,omitempty" gorm:"foreignKey:ID;references:ID;constraint:OnDelete:CASCADE"`
}

func (Resource) TableName() string { return "resource" }

// VariantAssociations lists the association names used to batch-load variants.
var VariantAssociations = []string{"Presentation", "Report", "Publication", "SoftwareRepository", "Dataset"}

// Variant is one concrete shape of a Resource. The unexported methods keep
// the set of variants closed to this package.
type Variant interface {
	Kind() ResourceType
	resourceID() int64
	setResourceID(id int64)
}

// NewResource builds a resource whose discriminant matches v.
func NewResource(title, link string, v Variant) *Resource {
	r := &Resource{Title: title, Link: link}
	r.SetVariant(v)
	return r
}

func NewPresentation(title, link string, p Presentation) *Resource {
	if p.Visibility == "" {
		p.Visibility = VisibilityPrivateInternal
	}
	return NewResource(title, link, &p)
}

func NewReport(title, link string, p Report) *Resource {
	p.StartTS, p.EndTS = p.StartTS.UTC(), p.EndTS.UTC()
	return NewResource(title, link, &p)
}

func NewPublication(title, link string, p Publication) *Resource {
	return NewResource(title, link, &p)
}

func NewSoftwareRepository(title, link string, p SoftwareRepository) *Resource {
	return NewResource(title, link, &p)
}

func NewDataset(title, link string, p Dataset) *Resource {
	return NewResource(title, link, &p)
}

// SetVariant replaces the payload and the discriminant together.
func (r *Resource) SetVariant(v Variant) {
	r.Presentation, r.Report, r.Publication, r.SoftwareRepository, r.Dataset = nil, nil, nil, nil, nil
	switch p := v.(type) {
	case *Presentation:
		r.Presentation = p
	case *Report:
		r.Report = p
	case *Publication:
		r.Publication = p
	case *SoftwareRepository:
		r.SoftwareRepository = p
	case *Dataset:
		r.Dataset = p
	default:
		return
	}
	r.Type = v.Kind()
	v.setResourceID(r.ID)
}

// Variant returns the concrete payload.
func (r *Resource) Variant() (Variant, error) {
	var found []Variant
	if r.Presentation != nil {
		found = append(found, r.Presentation)
	}
	if r.Report != nil {
		found = append(found, r.Report)
	}
	if r.Publication != nil {
		found = append(found, r.Publication)
	}
	if r.SoftwareRepository != nil {
		found = append(found, r.SoftwareRepository)
	}
	if r.Dataset != nil {
		found = append(found, r.Dataset)
	}

	switch {
	case len(found) == 0:
		return nil, &ValidationError{Entity: "resource", Field: "type", Rule: "variant_missing", Value: r.Type}
	case len(found) > 1:
		return nil, &ValidationError{Entity: "resource", Field: "type", Rule: "variant_ambiguous", Value: r.Type}
	case found[0].Kind() != r.Type:
		return nil, &ValidationError{Entity: "resource", Field: "type", Rule: "variant_mismatch", Value: r.Type}
	}
	if id := found[0].resourceID(); id != 0 && r.ID != 0 && id != r.ID {
		return nil, &ValidationError{Entity: "resource", Field: "id", Rule: "variant_identity", Value: id}
	}
	return found[0], nil
}

func (r *Resource) Validate() error {
	if err := Validate("resource", r); err != nil {
		return err
	}
	_, err := r.Variant()
	return err
}

// Presentation is content presented to the public or to stakeholders.
type Presentation struct {
	ID         int64                  `json:"id" gorm:"primaryKey;autoIncrement:false"`
	Duration   int64                  `json:"duration" gorm:"not null;default:0;check:chk_presentation_duration,duration >= 0" validate:"gte=0"`
	Subtitles  datatypes.JSONMap      `json:"subtitles,omitempty"`
	Visibility PresentationVisibility `json:"visibility" gorm:"type:varchar(32);not null;default:private_internal;check:chk_presentation_visibility,visibility IN ('private_internal','stakeholders_only','public_community')" validate:"required,oneof=private_internal stakeholders_only public_community"`
}

func (Presentation) TableName() string { return "presentation" }
func (*Presentation) Kind() ResourceType { return ResourcePresentation }
func (p *Presentation) resourceID() int64 { return p.ID }
func (p *Presentation) setResourceID(id int64) { p.ID = id }

// Report is a periodic progress report from a project participant.
type Report struct {
	ID                 int64        `json:"id" gorm:"primaryKey;autoIncrement:false"`
	StartTS            time.Time    `json:"start_ts" gorm:"column:start_ts;not null" validate:"required"`
	EndTS              time.Time    `json:"end_ts" gorm:"column:end_ts;not null;check:chk_report_window,end_ts > start_ts" validate:"required,gtfield=StartTS"`
	ResponsibilityZone *string      `json:"responsibility_zone,omitempty"`
	Comments           *string      `json:"comments,omitempty"`
	Status             ReportStatus `json:"status" gorm:"type:varchar(32);not null;check:chk_report_status,status IN ('draft','submitted','revision','approved')" validate:"required,oneof=draft submitted revision approved"`
}

func (Report) TableName() string { return "report" }
func (*Report) Kind() ResourceType { return ResourceReport }
func (p *Report) resourceID() int64 { return p.ID }
func (p *Report) setResourceID(id int64) { p.ID = id }

// Publication is a research article on a specific topic.
type Publication struct {
	ID        int64                       `json:"id" gorm:"primaryKey;autoIncrement:false"`
	Keywords  datatypes.JSONSlice[string] `json:"keywords,omitempty"`
	Publisher *string                     `json:"publisher,omitempty"`
}

func (Publication) TableName() string { return "publication" }
func (*Publication) Kind() ResourceType { return ResourcePublication }
func (p *Publication) resourceID() int64 { return p.ID }
func (p *Publication) setResourceID(id int64) { p.ID = id }

type SoftwareRepository struct {
	ID          int64   `json:"id" gorm:"primaryKey;autoIncrement:false"`
	License     *string `json:"license,omitempty"`
	LinesAmount int64   `json:"lines_amount" gorm:"not null;default:0;check:chk_software_repository_lines,lines_amount >= 0" validate:"gte=0"`
}

func (SoftwareRepository) TableName() string { return "software_repository" }
func (*SoftwareRepository) Kind() ResourceType { return ResourceSoftwareRepository }
func (p *SoftwareRepository) resourceID() int64 { return p.ID }
func (p *SoftwareRepository) setResourceID(id int64) { p.ID = id }

// Dataset.Size is the total size in bytes. Attributes describe the fields of
// the dataset with their types.
type Dataset struct {
	ID         int64                       `json:"id" gorm:"primaryKey;autoIncrement:false"`
	License    *string                     `json:"license,omitempty"`
	Tags       datatypes.JSONSlice[string] `json:"tags,omitempty"`
	Size       int64                       `json:"size" gorm:"not null;default:0;check:chk_dataset_size,size >= 0" validate:"gte=0"`
	Attributes datatypes.JSONMap           `json:"attributes,omitempty"`
}

func (Dataset) TableName() string { return "dataset" }
func (*Dataset) Kind() ResourceType { return ResourceDataset }
func (p *Dataset) resourceID() int64 { return p.ID }
func (p *Dataset) setResourceID(id int64) { p.ID = id }
