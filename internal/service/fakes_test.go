package service

import (
	"time"

	"backend/internal/models"
)

// In-memory repository fakes. They hand out copies the way a database
// driver would, so mutations on fetched records never leak back into the
// stored rows.

type fakeUserRepo struct {
	nextID int64
	users  map[int64]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[int64]*models.User)}
}

func (r *fakeUserRepo) CreateUser(user *models.User) error {
	r.nextID++
	user.ID = r.nextID
	user.CreatedAt = time.Now()
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *fakeUserRepo) FindByUsername(username string) (*models.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			clone := *u
			return &clone, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) FindByID(id int64) (*models.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	clone := *u
	return &clone, nil
}

func (r *fakeUserRepo) Update(user *models.User) error {
	if stored, ok := r.users[user.ID]; ok {
		stored.Firstname = user.Firstname
		stored.Lastname = user.Lastname
		stored.Bio = user.Bio
	}
	return nil
}

type fakePostRepo struct {
	nextID int64
	posts  map[int64]*models.Post
}

func newFakePostRepo() *fakePostRepo {
	return &fakePostRepo{posts: make(map[int64]*models.Post)}
}

func (r *fakePostRepo) Create(post *models.Post) error {
	r.nextID++
	post.ID = r.nextID
	post.CreatedAt = time.Now()
	clone := *post
	r.posts[post.ID] = &clone
	return nil
}

func (r *fakePostRepo) FindByID(id int64) (*models.Post, error) {
	p, ok := r.posts[id]
	if !ok {
		return nil, nil
	}
	clone := *p
	return &clone, nil
}

func (r *fakePostRepo) FindOwnedBy(postID, userID int64) (*models.Post, error) {
	p, ok := r.posts[postID]
	if !ok || p.UserID != userID {
		return nil, nil
	}
	clone := *p
	return &clone, nil
}

func (r *fakePostRepo) FindByUserID(userID int64) ([]models.Post, error) {
	posts := []models.Post{}
	for _, p := range r.posts {
		if p.UserID == userID {
			posts = append(posts, *p)
		}
	}
	return posts, nil
}

func (r *fakePostRepo) FindAll() ([]models.Post, error) {
	posts := []models.Post{}
	for _, p := range r.posts {
		posts = append(posts, *p)
	}
	return posts, nil
}

func (r *fakePostRepo) AddLike(postID int64) error {
	if p, ok := r.posts[postID]; ok {
		p.Likes++
	}
	return nil
}

func (r *fakePostRepo) Delete(id int64) error {
	delete(r.posts, id)
	return nil
}

type fakeImageRepo struct {
	nextID int64
	images map[int64]*models.ImageModel
}

func newFakeImageRepo() *fakeImageRepo {
	return &fakeImageRepo{images: make(map[int64]*models.ImageModel)}
}

func cloneImage(img *models.ImageModel) *models.ImageModel {
	clone := *img
	clone.ImageBytes = append([]byte(nil), img.ImageBytes...)
	return &clone
}

func (r *fakeImageRepo) Save(image *models.ImageModel) error {
	r.nextID++
	image.ID = r.nextID
	r.images[image.ID] = cloneImage(image)
	return nil
}

func (r *fakeImageRepo) FindByUserID(userID int64) (*models.ImageModel, error) {
	for _, img := range r.images {
		if img.UserID.Valid && img.UserID.Int64 == userID {
			return cloneImage(img), nil
		}
	}
	return nil, nil
}

func (r *fakeImageRepo) FindByPostID(postID int64) (*models.ImageModel, error) {
	for _, img := range r.images {
		if img.PostID.Valid && img.PostID.Int64 == postID {
			return cloneImage(img), nil
		}
	}
	return nil, nil
}

func (r *fakeImageRepo) Delete(id int64) error {
	delete(r.images, id)
	return nil
}
