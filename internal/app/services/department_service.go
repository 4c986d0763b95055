package services

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/unimanage/internal/app/models"
	"github.com/yigit/unimanage/internal/app/models/dto"
)

// DepartmentService defines department operations
type DepartmentService interface {
	Create(ctx context.Context, req *dto.CreateDepartmentRequest) (*models.Department, error)
	FindAll(ctx context.Context, filter dto.DepartmentFilter) ([]*models.Department, error)
	FindOne(ctx context.Context, id int64) (*models.Department, error)
	Update(ctx context.Context, id int64, req *dto.UpdateDepartmentRequest) (*models.Department, error)
	Remove(ctx context.Context, id int64) error
}

type departmentServiceImpl struct {
	departments DepartmentStore
	logger      zerolog.Logger
}

// NewDepartmentService creates a new department service instance
func NewDepartmentService(departments DepartmentStore, logger zerolog.Logger) DepartmentService {
	return &departmentServiceImpl{
		departments: departments,
		logger:      logger,
	}
}

func (s *departmentServiceImpl) Create(ctx context.Context, req *dto.CreateDepartmentRequest) (*models.Department, error) {
	department := &models.Department{
		Name:             strings.TrimSpace(req.Name),
		Description:      req.Description,
		HeadOfDepartment: strings.TrimSpace(req.HeadOfDepartment),
	}

	if err := s.departments.Create(ctx, department); err != nil {
		return nil, storeError(s.logger, err, "failed to create department")
	}
	return department, nil
}

func (s *departmentServiceImpl) FindAll(ctx context.Context, filter dto.DepartmentFilter) ([]*models.Department, error) {
	departments, err := s.departments.List(ctx, filter.Name)
	if err != nil {
		return nil, storeError(s.logger, err, "failed to list departments")
	}
	return departments, nil
}

func (s *departmentServiceImpl) FindOne(ctx context.Context, id int64) (*models.Department, error) {
	department, err := s.departments.GetByID(ctx, id)
	if err != nil {
		return nil, lookupError(s.logger, err, "Department", id)
	}
	return department, nil
}

func (s *departmentServiceImpl) Update(ctx context.Context, id int64, req *dto.UpdateDepartmentRequest) (*models.Department, error) {
	fields := make(map[string]interface{})
	if req.Name != nil {
		fields["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		fields["description"] = *req.Description
	}
	if req.HeadOfDepartment != nil {
		fields["head_of_department"] = strings.TrimSpace(*req.HeadOfDepartment)
	}

	department, err := s.departments.Update(ctx, id, fields)
	if err != nil {
		return nil, lookupError(s.logger, err, "Department", id)
	}
	return department, nil
}

func (s *departmentServiceImpl) Remove(ctx context.Context, id int64) error {
	if err := s.departments.Delete(ctx, id); err != nil {
		return lookupError(s.logger, err, "Department", id)
	}
	return nil
}
