package repository

import (
	"context"
	"errors"
	"strings"

	"openlearner_backend/pkg/objectstore"
)

// ObjectMaterialRepo 课程资料存放到对象存储，其余数据仍走原 Store
type ObjectMaterialRepo struct {
	Store
	objects objectstore.Provider
}

func NewObjectMaterialRepo(inner Store, objects objectstore.Provider) *ObjectMaterialRepo {
	return &ObjectMaterialRepo{Store: inner, objects: objects}
}

func materialKey(courseID string) string {
	return "materials/" + courseID + ".txt"
}

func (r *ObjectMaterialRepo) SaveCourseMaterial(ctx context.Context, courseID, material string) error {
	return r.objects.Put(ctx, materialKey(courseID), strings.NewReader(material), int64(len(material)), "text/plain; charset=utf-8")
}

func (r *ObjectMaterialRepo) GetCourseMaterial(ctx context.Context, courseID string) (string, bool, error) {
	data, err := r.objects.Get(ctx, materialKey(courseID))
	if errors.Is(err, objectstore.ErrObjectNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return string(data), true, nil
}
