package dto

import (
	"strings"

	"simaru/internal/domains/user/model"
	"simaru/shared"
	"simaru/shared/constant"
	gDto "simaru/shared/dto"
	gModel "simaru/shared/model"
	"simaru/shared/timezone"

	"github.com/google/uuid"
)

type CreateUserRequest struct {
	Name                 string `json:"name"                  validate:"required,max=255"`
	Email                string `json:"email"                 validate:"required,email,max=255"`
	Role                 string `json:"role"                  validate:"required,oneof=admin user manager"`
	Password             string `json:"password"              validate:"required,min=8"`
	PasswordConfirmation string `json:"password_confirmation" validate:"required,eqfield=Password"`
}

func (r *CreateUserRequest) ToModel(username string, hashedPassword string) model.User {
	return model.User{
		ID:       uuid.NewString(),
		Name:     strings.TrimSpace(r.Name),
		Email:    strings.ToLower(strings.TrimSpace(r.Email)),
		Role:     r.Role,
		Password: hashedPassword,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  username,
			ModifiedBy: username,
		},
	}
}

// UpdateUserRequest is a partial update. Password is hashed by the service and never copied as is.
type UpdateUserRequest struct {
	Name                 string `db:"name"  json:"name"                  validate:"omitempty,max=255"`
	Email                string `db:"email" json:"email"                 validate:"omitempty,email,max=255"`
	Role                 string `db:"role"  json:"role"                  validate:"omitempty,oneof=admin user manager"`
	Password             string `json:"password"              validate:"omitempty,min=8"`
	PasswordConfirmation string `json:"password_confirmation" validate:"eqfield=Password"`
}

func (r *UpdateUserRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
}

func (r UpdateUserRequest) IsEmpty() bool {
	return r.Name == constant.Empty && r.Email == constant.Empty && r.Role == constant.Empty && r.Password == constant.Empty
}

type UserResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
	gDto.Metadata
}

func (r *UserResponse) FromModel(model model.User) {
	r.ID = model.ID
	r.Name = model.Name
	r.Email = model.Email
	r.Role = model.Role
	r.Metadata.FromModel(model.Metadata)
}

type GetUsersResponse struct {
	Users     []UserResponse `json:"users"`
	TotalPage int            `json:"total_page"`
	TotalData int            `json:"total_data"`
}

func (r *GetUsersResponse) FromModels(models []model.User, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Users = make([]UserResponse, len(models))
	for i, mod := range models {
		r.Users[i].FromModel(mod)
	}
}

// SearchFilter matches the user name, optionally narrowed to one role.
func SearchFilter(search, role string) gDto.FilterGroup {
	filter := gDto.FilterGroup{Operator: gDto.FilterGroupOperatorAnd}

	if search = strings.TrimSpace(search); search != constant.Empty {
		filter.Filters = append(filter.Filters, gDto.Filter{
			Field:    model.FieldName,
			Operator: gDto.FilterOperatorLike,
			Value:    search,
			Table:    model.TableName,
		})
	}

	if role != constant.Empty {
		filter.Filters = append(filter.Filters, gDto.Filter{
			Field:    model.FieldRole,
			Operator: gDto.FilterOperatorEq,
			Value:    role,
			Table:    model.TableName,
		})
	}

	return filter
}

// EmailFilter matches an email, excluding the user with exceptID when it is set.
func EmailFilter(email, exceptID string) gDto.FilterGroup {
	filter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldEmail,
				Operator: gDto.FilterOperatorEq,
				Value:    strings.ToLower(strings.TrimSpace(email)),
				Table:    model.TableName,
			},
		},
	}

	if exceptID != constant.Empty {
		filter.Filters = append(filter.Filters, gDto.Filter{
			Field:    model.FieldID,
			Operator: gDto.FilterOperatorNotEq,
			Value:    exceptID,
			Table:    model.TableName,
		})
	}

	return filter
}

var SortableColumns = map[string]string{
	model.FieldName:      model.TableName + "." + model.FieldName,
	model.FieldEmail:     model.TableName + "." + model.FieldEmail,
	model.FieldRole:      model.TableName + "." + model.FieldRole,
	model.FieldCreatedAt: model.TableName + "." + model.FieldCreatedAt,
}

const DefaultSortBy = model.TableName + "." + model.FieldCreatedAt
