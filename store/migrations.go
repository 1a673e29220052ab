package store

const schema = `
CREATE TABLE IF NOT EXISTS genres (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT UNIQUE NOT NULL
);

CREATE TABLE IF NOT EXISTS editors (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS games (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    title TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    release_date TEXT NOT NULL,
    genre_id INTEGER NOT NULL,
    editor_id INTEGER NOT NULL,
    FOREIGN KEY (genre_id) REFERENCES genres(id) ON DELETE RESTRICT,
    FOREIGN KEY (editor_id) REFERENCES editors(id)
);

CREATE INDEX IF NOT EXISTS idx_games_title ON games(title);
CREATE INDEX IF NOT EXISTS idx_games_genre_id ON games(genre_id);
CREATE INDEX IF NOT EXISTS idx_games_editor_id ON games(editor_id);
CREATE INDEX IF NOT EXISTS idx_editors_name ON editors(name);
`
