package dto

import (
	"mime/multipart"
	"strings"

	"simaru/internal/domains/room/model"
	"simaru/shared"
	"simaru/shared/constant"
	gDto "simaru/shared/dto"
	gModel "simaru/shared/model"
	"simaru/shared/timezone"

	"github.com/google/uuid"
)

type CreateRoomRequest struct {
	Name        string                `json:"name"         validate:"required,max=255"`
	FacultyName string                `json:"faculty_name" validate:"required,max=255"`
	Capacity    int                   `json:"capacity"     validate:"required,min=1"`
	Status      string                `json:"status"       validate:"omitempty,oneof=draft approved rejected"`
	Photo       *multipart.FileHeader `json:"photo"        validate:"omitempty,maxfilesize=2"`
	PhotoFile   multipart.File        `json:"-"`
}

func (c *CreateRoomRequest) ToModel(user string, photoKey string) model.Room {
	status := c.Status
	if status == constant.Empty {
		status = model.StatusDraft
	}

	var photo *string
	if photoKey != constant.Empty {
		photo = &photoKey
	}

	return model.Room{
		ID:          uuid.NewString(),
		Name:        strings.TrimSpace(c.Name),
		FacultyName: strings.TrimSpace(c.FacultyName),
		Photo:       photo,
		Capacity:    c.Capacity,
		Status:      status,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

// UpdateRoomRequest is a partial update: zero fields are left unchanged.
type UpdateRoomRequest struct {
	Name        string                `db:"name"         json:"name"         validate:"omitempty,max=255"`
	FacultyName string                `db:"faculty_name" json:"faculty_name" validate:"omitempty,max=255"`
	Capacity    *int                  `db:"capacity"     json:"capacity"     validate:"omitempty,min=1"`
	Status      string                `db:"status"       json:"status"       validate:"omitempty,oneof=draft approved rejected"`
	Photo       *multipart.FileHeader `json:"photo"        validate:"omitempty,maxfilesize=2"`
	PhotoFile   multipart.File        `json:"-"`
	RemovePhoto bool                  `json:"remove_photo"`
}

type RoomResponse struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	FacultyName string  `json:"faculty_name"`
	Photo       *string `json:"photo"`
	PhotoURL    *string `json:"photo_url"`
	Capacity    int     `json:"capacity"`
	Status      string  `json:"status"`
	gDto.Metadata
}

// FromModel fills the response; urlOf resolves a storage key into its public URL.
func (r *RoomResponse) FromModel(model model.Room, urlOf func(string) string) {
	r.ID = model.ID
	r.Name = model.Name
	r.FacultyName = model.FacultyName
	r.Photo = model.Photo
	r.Capacity = model.Capacity
	r.Status = model.Status
	r.Metadata.FromModel(model.Metadata)

	if key := model.PhotoKey(); key != constant.Empty && urlOf != nil {
		url := urlOf(key)
		r.PhotoURL = &url
	}
}

type GetRoomsResponse struct {
	Rooms     []RoomResponse `json:"rooms"`
	TotalPage int            `json:"total_page"`
	TotalData int            `json:"total_data"`
}

func (r *GetRoomsResponse) FromModels(models []model.Room, totalData, limit int, urlOf func(string) string) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Rooms = make([]RoomResponse, len(models))
	for i, mod := range models {
		r.Rooms[i].FromModel(mod, urlOf)
	}
}

// SearchFilter matches name or faculty name, optionally narrowed to one status.
func SearchFilter(search, status string) gDto.FilterGroup {
	filter := gDto.FilterGroup{Operator: gDto.FilterGroupOperatorAnd}

	if search = strings.TrimSpace(search); search != constant.Empty {
		filter.Filters = append(filter.Filters, gDto.FilterGroup{
			Operator: gDto.FilterGroupOperatorOr,
			Filters: []any{
				gDto.Filter{
					ArgName:  "search_name",
					Field:    model.FieldName,
					Operator: gDto.FilterOperatorLike,
					Value:    search,
					Table:    model.TableName,
				},
				gDto.Filter{
					ArgName:  "search_faculty_name",
					Field:    model.FieldFacultyName,
					Operator: gDto.FilterOperatorLike,
					Value:    search,
					Table:    model.TableName,
				},
			},
		})
	}

	if status != constant.Empty {
		filter.Filters = append(filter.Filters, gDto.Filter{
			Field:    model.FieldStatus,
			Operator: gDto.FilterOperatorEq,
			Value:    status,
			Table:    model.TableName,
		})
	}

	return filter
}

// SortableColumns maps the accepted sort_by values to their qualified columns.
var SortableColumns = map[string]string{
	model.FieldName:        model.TableName + "." + model.FieldName,
	model.FieldFacultyName: model.TableName + "." + model.FieldFacultyName,
	model.FieldCapacity:    model.TableName + "." + model.FieldCapacity,
	model.FieldStatus:      model.TableName + "." + model.FieldStatus,
	model.FieldCreatedAt:   model.TableName + "." + model.FieldCreatedAt,
}

const DefaultSortBy = model.TableName + "." + model.FieldCreatedAt
