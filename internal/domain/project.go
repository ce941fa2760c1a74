package domain

// Project is a research and development project of one laboratory.
type Project struct {
	ID           int64         `json:"id" gorm:"primaryKey"`
	Title        string        `json:"title" gorm:"not null" validate:"required"`
	Description  *string       `json:"description,omitempty"`
	Type         ProjectType   `json:"type" gorm:"type:varchar(32);not null;check:chk_project_type,type IN ('research','commercial','community')" validate:"required,oneof=research commercial community"`
	Status       ProjectStatus `json:"status" gorm:"type:varchar(32);not null;check:chk_project_status,status IN ('active','completed')" validate:"required,oneof=active completed"`
	LaboratoryID int64         `json:"laboratory_id" gorm:"not null;index" validate:"required"`

	Resources    []Resource `json:"resources,omitempty" gorm:"many2many:project_resource;joinForeignKey:ProjectID;joinReferences:ResourceID"`
	Partners     []Partner  `json:"partners,omitempty" gorm:"many2many:project_partner;joinForeignKey:ProjectID;joinReferences:PartnerID"`
	Participants []Account  `json:"participants,omitempty" gorm:"many2many:project_participant;joinForeignKey:ProjectID;joinReferences:AccountID"`
}

func (Project) TableName() string { return "project" }

func (p *Project) Normalize() {
	if p.Status == "" {
		p.Status = ProjectActive
	}
}

func (p *Project) Validate() error {
	return Validate("project", p)
}

// Partner is an external sponsor or stakeholder of projects.
type Partner struct {
	ID    int64       `json:"id" gorm:"primaryKey"`
	Title string      `json:"title" gorm:"not null" validate:"required"`
	Type  PartnerType `json:"type" gorm:"type:varchar(32);not null;default:local;check:chk_partner_type,type IN ('local','regional','national','international','global')" validate:"required,oneof=local regional national international global"`
}

func (Partner) TableName() string { return "partner" }

func (p *Partner) Normalize() {
	if p.Type == "" {
		p.Type = PartnerLocal
	}
}

func (p *Partner) Validate() error {
	return Validate("partner", p)
}

// Association rows. Each table holds the two keys only, and the composite
// primary key makes membership a set.

type ProjectResource struct {
	ProjectID  int64 `gorm:"primaryKey"`
	ResourceID int64 `gorm:"primaryKey"`
}

func (ProjectResource) TableName() string { return "project_resource" }

type ProjectPartner struct {
	ProjectID int64 `gorm:"primaryKey"`
	PartnerID int64 `gorm:"primaryKey"`
}

func (ProjectPartner) TableName() string { return "project_partner" }

type ProjectParticipant struct {
	ProjectID int64 `gorm:"primaryKey"`
	AccountID int64 `gorm:"primaryKey"`
}

func (ProjectParticipant) TableName() string { return "project_participant" }
