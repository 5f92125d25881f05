package schema

// ListTodosRequest asks for the complete ordered collection.
type ListTodosRequest struct{}

// ListTodosResponse carries the full snapshot, oldest first.
type ListTodosResponse struct {
	Todos []Todo
}

// GetTodoRequest fetches a single todo by id.
type GetTodoRequest struct {
	ID TodoID
}

// GetTodoResponse carries the requested todo.
type GetTodoResponse struct {
	Todo Todo
}

// CreateTodoRequest adds a todo.
type CreateTodoRequest struct {
	Title       string
	Description string
}

// CreateTodoResponse carries the created todo with its assigned id.
type CreateTodoResponse struct {
	Todo Todo
}

// UpdateTodoRequest modifies an existing todo. Nil fields are unchanged.
type UpdateTodoRequest struct {
	ID          TodoID
	Title       *string
	Description *string
}

// UpdateTodoResponse carries the updated todo.
type UpdateTodoResponse struct {
	Todo Todo
}

// DeleteTodoRequest removes a todo by id.
type DeleteTodoRequest struct {
	ID TodoID
}

// DeleteTodoResponse confirms the removal.
type DeleteTodoResponse struct {
	ID    TodoID
	Title string
}
